package store

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// lookupGeoIPCountry attempts to open common GeoLite2 country database
// locations and return the ISO country code for the provided IP. Returns
// ok=false if no database is installed or the lookup fails; login audit
// records then carry an empty country rather than an error.
func lookupGeoIPCountry(ipStr string) (string, bool) {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "", false
	}
	paths := []string{
		"/usr/share/GeoIP/GeoLite2-Country.mmdb",
		"/usr/local/share/GeoIP/GeoLite2-Country.mmdb",
	}
	for _, p := range paths {
		if db, err := geoip2.Open(p); err == nil {
			rec, err2 := db.Country(ip)
			db.Close()
			if err2 == nil && rec != nil {
				return rec.Country.IsoCode, true
			}
		}
	}
	return "", false
}
