package main

import (
	"fmt"
	"io"
	"strconv"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/geocoding-microservice/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// renderTable печатает по строке на placemark; запрос без результатов
// печатается одной строкой с прочерками
func renderTable(w io.Writer, resp *domain.BatchResponse) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Query", "Name", "Lat", "Lon", "Relevance"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, group := range resp.Groups {
		idx := strconv.Itoa(group.Index)
		if len(group.Placemarks) == 0 {
			table.Append([]string{idx, group.Query, "-", "-", "-", "-"})
			continue
		}
		for _, p := range group.Placemarks {
			table.Append([]string{
				idx,
				group.Query,
				p.QualifiedName,
				strconv.FormatFloat(p.Coordinate.Lat, 'f', 6, 64),
				strconv.FormatFloat(p.Coordinate.Lon, 'f', 6, 64),
				strconv.FormatFloat(p.Relevance, 'f', 2, 64),
			})
		}
	}

	table.Render()

	seen := make(map[string]bool)
	for _, a := range resp.Attribution {
		if a != "" && !seen[a] {
			seen[a] = true
			fmt.Fprintln(w, a)
		}
	}
}

// printLocations геокодирует запросы по одному через geo.Geocoder
func printLocations(w io.Writer, geocoder geo.Geocoder, queries []string) error {
	for _, q := range queries {
		loc, err := geocoder.Geocode(q)
		if err != nil {
			return fmt.Errorf("%q: %w", q, err)
		}
		if loc == nil {
			fmt.Fprintf(w, "%s\tnot found\n", q)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6f,%.6f\n", q, loc.Lat, loc.Lng)
	}
	return nil
}
