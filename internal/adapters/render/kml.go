package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/services"
	"strconv"
	"strings"

	"github.com/twpayne/go-polyline"
)

const kmlNamespace = "http://www.opengis.net/kml/2.2"

// Line colors in KML aabbggrr order, cycled by route number.
var linePalette = []string{
	"ffd18802", "ff1c2be6", "ff3ba50f", "ff00a5ff", "ff8e24aa",
	"ff7e6b00", "ff4d4dff", "ff2e7d32", "ffc2185b", "ff607d8b",
}

type kmlDoc struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name    string      `xml:"name"`
	Styles  []kmlStyle  `xml:"Style"`
	Folders []kmlFolder `xml:"Folder"`
}

type kmlStyle struct {
	ID        string        `xml:"id,attr"`
	LineStyle *kmlLineStyle `xml:"LineStyle,omitempty"`
	IconStyle *kmlIconStyle `xml:"IconStyle,omitempty"`
}

type kmlLineStyle struct {
	Color string  `xml:"color"`
	Width float64 `xml:"width"`
}

type kmlIconStyle struct {
	Color string  `xml:"color"`
	Scale float64 `xml:"scale"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	StyleURL    string         `xml:"styleUrl"`
	LineString  *kmlLineString `xml:"LineString,omitempty"`
	Point       *kmlPoint      `xml:"Point,omitempty"`
}

type kmlLineString struct {
	Tessellate  int    `xml:"tessellate"`
	Coordinates string `xml:"coordinates"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

// KMLWriter renders route summaries as a KML 2.2 document for map viewers.
type KMLWriter struct {
	Title string
}

func NewKMLWriter(title string) *KMLWriter {
	return &KMLWriter{Title: title}
}

func (k *KMLWriter) Write(w io.Writer, routes []domain.RouteSummary) error {
	doc := kmlDoc{
		Xmlns: kmlNamespace,
		Document: kmlDocument{
			Name: k.Title,
			Styles: []kmlStyle{{
				ID:        "stop",
				IconStyle: &kmlIconStyle{Color: "ffd18802", Scale: 1},
			}},
		},
	}

	for i, r := range routes {
		num := i + 1
		styleID := lineStyleID(num)
		doc.Document.Styles = append(doc.Document.Styles, kmlStyle{
			ID:        styleID,
			LineStyle: &kmlLineStyle{Color: LineColor(num), Width: 7.2},
		})

		coords, err := routeLine(r)
		if err != nil {
			return fmt.Errorf("write kml: route %d: %w", num, err)
		}

		doc.Document.Folders = append(doc.Document.Folders,
			kmlFolder{
				Name: fmt.Sprintf("Route %d", num),
				Placemarks: []kmlPlacemark{{
					Name:        "Route",
					Description: routeDescription(r),
					StyleURL:    "#" + styleID,
					LineString:  &kmlLineString{Tessellate: 1, Coordinates: coords},
				}},
			},
			stopsFolder(num, r),
		)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write kml: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write kml: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write kml: flush: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// LineColor returns the line color for the 1-based route number.
func LineColor(num int) string {
	if num < 1 {
		num = 1
	}
	return linePalette[(num-1)%len(linePalette)]
}

func lineStyleID(num int) string { return "route-" + strconv.Itoa(num) }

func routeDescription(r domain.RouteSummary) string {
	events := len(r.Steps) - 2
	if events < 0 {
		events = 0
	}
	return fmt.Sprintf("traveling time: %d minutes\nevents: %d\ntotal deliveries volume: %s",
		int(r.DurationSeconds/60), events, round2(r.DeliveriesVolume))
}

// Polyline points are lat,lng; KML wants lng,lat,alt.
func routeLine(r domain.RouteSummary) (string, error) {
	var b strings.Builder

	if r.Geometry == "" {
		for _, s := range r.Steps {
			writeCoord(&b, s.Position.Lat, s.Position.Lng)
		}
		return strings.TrimSpace(b.String()), nil
	}

	points, _, err := polyline.DecodeCoords([]byte(r.Geometry))
	if err != nil {
		return "", fmt.Errorf("decode geometry: %w", err)
	}
	for _, p := range points {
		writeCoord(&b, p[0], p[1])
	}

	return strings.TrimSpace(b.String()), nil
}

func stopsFolder(num int, r domain.RouteSummary) kmlFolder {
	f := kmlFolder{Name: fmt.Sprintf("Route %d Points", num)}
	loads := services.RunningLoads(r)

	for i, s := range r.Steps {
		f.Placemarks = append(f.Placemarks, kmlPlacemark{
			Name: "Event " + s.ID,
			Description: fmt.Sprintf("event volume: %s\nremaining vehicle volume after event: %s",
				round2(s.Volume), round2(loads[i])),
			StyleURL: "#stop",
			Point:    &kmlPoint{Coordinates: coord(s.Position.Lat, s.Position.Lng)},
		})
	}

	return f
}

func writeCoord(b *strings.Builder, lat, lng float64) {
	b.WriteString(coord(lat, lng))
	b.WriteByte(' ')
}

func coord(lat, lng float64) string {
	return strconv.FormatFloat(lng, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64) + ",0"
}

func round2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
