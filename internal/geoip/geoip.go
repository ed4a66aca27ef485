// Package geoip resolves a coarse origin point from a client IP address
// using a local MaxMind city database. It is a fallback for reps who denied
// browser geolocation; a nil result just means the map stays unranked.
package geoip

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/oschwald/geoip2-golang"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
)

// Resolver wraps an open GeoLite2/GeoIP2 city database.
type Resolver struct {
	reader *geoip2.Reader
}

// Open loads the city database named by GEOIP_DB_PATH.
// Returns nil, nil if the variable is not set (graceful degradation).
func Open() (*Resolver, error) {
	path := os.Getenv("GEOIP_DB_PATH")
	if path == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// Close releases the underlying database.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

// OriginForRequest guesses a ranking origin from the request's client IP.
// Any failure (private address, no record, zeroed coordinates) yields nil,
// which downstream treats as "no origin".
func (r *Resolver) OriginForRequest(req *http.Request) *proximity.Point {
	if r == nil || r.reader == nil {
		return nil
	}

	ip := net.ParseIP(ClientIP(req))
	if ip == nil {
		return nil
	}

	record, err := r.reader.City(ip)
	if err != nil {
		log.Printf("[OriginForRequest] ip=%s err=%v", ip, err)
		return nil
	}

	p := proximity.Point{
		Lat: record.Location.Latitude,
		Lng: record.Location.Longitude,
	}
	if !p.Valid() {
		return nil
	}
	return &p
}

// ClientIP extracts the originating client address. The hosted proxy sets
// X-Forwarded-For with the client first; locally we fall back to RemoteAddr.
func ClientIP(req *http.Request) string {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
