// Package docs Geocoding Microservice API.
//
// Микросервис пакетного прямого геокодирования через Mapbox.
// Объединяет запросы в пакеты, возвращает результаты в порядке запросов
// вместе с атрибуцией провайдера для каждого запроса.
//
// Основные возможности:
// - Пакетное прямое геокодирование с общими фильтрами
// - Одиночные запросы, объединяемые в пакеты планировщиком
// - Статистика журнала запросов
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
