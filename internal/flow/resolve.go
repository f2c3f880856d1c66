package flow

import (
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	literalNullRestaurantParameter = "null"

	logEventUnresolvedRestaurant = "restaurant_unresolved"
	logEventSubdomainLookup      = "restaurant_subdomain_lookup_failed"
	logFieldHost                 = "host"
	logFieldSlug                 = "slug"
)

// Subdomain markers recognized in feedback hostnames, e.g.
// "hasanusta-degerlendirme.example.com" or "grill-feedback.example.com".
var subdomainFeedbackMarkers = []string{"-degerlendirme.", "-feedback."}

// RestaurantRef is the resolved tenant a screen renders for.
type RestaurantRef struct {
	ID   uint
	Name string
	Slug string
}

// RestaurantDirectory looks tenants up during resolution.
type RestaurantDirectory interface {
	RestaurantByID(restaurantID uint) (RestaurantRef, error)
	RestaurantBySubdomain(slug string) (RestaurantRef, error)
}

// ResolveOptions tunes restaurant resolution. LegacyDefaultRestaurantID, when
// non-zero, restores the historical fall-back-to-fixed-id behavior; the
// default leaves resolution explicit so misconfigured links surface as an
// unresolved state instead of silently landing on one tenant.
type ResolveOptions struct {
	LegacyDefaultRestaurantID uint
}

// Resolution is the outcome of restaurant resolution. Downstream screens must
// tolerate Resolved == false and fall back to generic copy.
type Resolution struct {
	Resolved   bool
	Restaurant RestaurantRef
}

// ResolveRestaurant determines the tenant for the current location. Order:
// a recognized subdomain marker in the host wins and resolves by slug; next a
// numeric "restaurant" query parameter (the literal string "null" is treated
// as absent); otherwise resolution fails open to an unresolved state.
func ResolveRestaurant(host string, query url.Values, directory RestaurantDirectory, logger *zap.Logger, options ResolveOptions) Resolution {
	if slug, isSubdomainHost := subdomainSlug(host); isSubdomainHost {
		restaurant, lookupErr := directory.RestaurantBySubdomain(slug)
		if lookupErr == nil {
			return Resolution{Resolved: true, Restaurant: restaurant}
		}
		logger.Warn(logEventSubdomainLookup, zap.String(logFieldHost, host), zap.String(logFieldSlug, slug), zap.Error(lookupErr))
		return unresolved(host, logger, directory, options)
	}

	restaurantParameter := strings.TrimSpace(query.Get(queryParameterRestaurant))
	if restaurantParameter != "" && restaurantParameter != literalNullRestaurantParameter {
		parsedID, parseErr := strconv.ParseUint(restaurantParameter, 10, 32)
		if parseErr == nil && parsedID > 0 {
			restaurant, lookupErr := directory.RestaurantByID(uint(parsedID))
			if lookupErr == nil {
				return Resolution{Resolved: true, Restaurant: restaurant}
			}
			// Lookup failure still yields the id so the intake screen can
			// proceed with generic copy.
			return Resolution{Resolved: true, Restaurant: RestaurantRef{ID: uint(parsedID)}}
		}
	}

	return unresolved(host, logger, directory, options)
}

func unresolved(host string, logger *zap.Logger, directory RestaurantDirectory, options ResolveOptions) Resolution {
	logger.Warn(logEventUnresolvedRestaurant, zap.String(logFieldHost, host))
	if options.LegacyDefaultRestaurantID == 0 {
		return Resolution{}
	}
	restaurant, lookupErr := directory.RestaurantByID(options.LegacyDefaultRestaurantID)
	if lookupErr != nil {
		restaurant = RestaurantRef{ID: options.LegacyDefaultRestaurantID}
	}
	return Resolution{Resolved: true, Restaurant: restaurant}
}

func subdomainSlug(host string) (string, bool) {
	normalizedHost := strings.ToLower(strings.TrimSpace(host))
	for _, marker := range subdomainFeedbackMarkers {
		if !strings.Contains(normalizedHost, marker) {
			continue
		}
		hostLabel := strings.SplitN(normalizedHost, ".", 2)[0]
		markerLabel := strings.TrimSuffix(marker, ".")
		return strings.TrimSuffix(hostLabel, markerLabel), true
	}
	return "", false
}
