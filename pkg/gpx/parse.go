package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

type xmlTrkpt struct {
	Lat  float64  `xml:"lat,attr"`
	Lon  float64  `xml:"lon,attr"`
	Ele  *float64 `xml:"ele"`
	Time string   `xml:"time"`
}

type xmlTrkseg struct {
	Points []xmlTrkpt `xml:"trkpt"`
}

type xmlTrk struct {
	Name     string      `xml:"name"`
	Segments []xmlTrkseg `xml:"trkseg"`
}

type xmlGPX struct {
	XMLName xml.Name `xml:"gpx"`
	Tracks  []xmlTrk `xml:"trk"`
}

// Parse 解析 GPX 1.0/1.1 文档。多个 <trk>/<trkseg> 按出现顺序合并为一条轨迹。
// 坐标越界、时间戳回退均视为校验失败。
func Parse(r io.Reader) (*Track, error) {
	var doc xmlGPX
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	if len(doc.Tracks) == 0 {
		return nil, ErrNoTrack
	}

	track := &Track{Name: doc.Tracks[0].Name}
	var lastTime *time.Time

	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				if pt.Lat < -90 || pt.Lat > 90 || pt.Lon < -180 || pt.Lon > 180 {
					return nil, fmt.Errorf("%w: lat=%v lon=%v", ErrCoordinateRange, pt.Lat, pt.Lon)
				}

				p := Point{Lat: pt.Lat, Lon: pt.Lon, Elevation: pt.Ele}

				if pt.Time != "" {
					t, err := time.Parse(time.RFC3339, pt.Time)
					if err != nil {
						return nil, fmt.Errorf("%w: bad timestamp %q", ErrMalformedXML, pt.Time)
					}
					if lastTime != nil && t.Before(*lastTime) {
						return nil, ErrNonMonotonicTime
					}
					p.Time = &t
					lastTime = &t
				}

				track.Points = append(track.Points, p)
			}
		}
	}

	if len(track.Points) == 0 {
		return nil, ErrNoPoints
	}

	return track, nil
}
