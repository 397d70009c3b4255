// Package resolve reconciles contact and date fields scattered across the
// store's inconsistent record schemas. Resolution never fails: a field no key
// yields degrades to a default, because notification is best-effort and must
// not crash on incomplete data.
package resolve

import (
	"encoding/json"
	"fmt"
	"time"

	"lostfound/internal/domain"
)

// Profile is the normalized contact bundle used to address and fill one
// notification message. An empty Email means that side cannot be notified.
type Profile struct {
	Name  string
	Email string
	Phone string
}

const (
	// DefaultPosterName labels the poster when no name field is set.
	DefaultPosterName = "Item Owner/Finder"
	// DefaultClaimantName labels the claimant when no name field is set.
	DefaultClaimantName = "Claimant"
	// DefaultPhone stands in for a missing phone number.
	DefaultPhone = "Not provided"
	// DateNotProvided is returned when no record carries any date field.
	DateNotProvided = "Date not provided"
	// UnknownDateFormat is returned when a timestamp-shaped value cannot be
	// interpreted.
	UnknownDateFormat = "Unknown date format"
)

var (
	posterEmailKeys = []string{"email", "userEmail", "ownerEmail"}
	posterNameKeys  = []string{"name", "userName", "ownerName"}
	posterPhoneKeys = []string{"phone", "userPhone", "ownerPhone"}

	claimantEmailKeys = []string{"email", "userEmail", "claimantEmail"}
	claimantNameKeys  = []string{"name", "userName", "claimantName"}
	claimantPhoneKeys = []string{"phone", "userPhone", "claimantPhone"}

	backupDateKeys = []string{"date", "dateReported", "dateSubmitted", "timestamp"}
)

// Poster resolves the contact profile of the user who reported the item,
// from the item record with the claim record as fallback. The full key list
// is exhausted against the item before the claim is consulted.
func Poster(item, claim domain.Record) Profile {
	return Profile{
		Name:  withDefault(firstOf(posterNameKeys, item, claim), DefaultPosterName),
		Email: firstOf(posterEmailKeys, item, claim),
		Phone: withDefault(firstOf(posterPhoneKeys, item, claim), DefaultPhone),
	}
}

// Claimant resolves the contact profile of the person filing the claim.
// Only the claim record is consulted; item fields never leak into it.
func Claimant(claim domain.Record) Profile {
	return Profile{
		Name:  withDefault(firstOf(claimantNameKeys, claim), DefaultClaimantName),
		Email: firstOf(claimantEmailKeys, claim),
		Phone: withDefault(firstOf(claimantPhoneKeys, claim), DefaultPhone),
	}
}

// ItemDate resolves the item's relevant date as display text. The primary
// field depends on the item type (dateLost/dateFound); legacy records may
// carry one of several generic date fields instead. Each candidate key is
// tried on the item record, then on the claim record.
func ItemDate(itemType string, item, claim domain.Record) string {
	primary := "dateFound"
	if itemType == domain.TypeLost {
		primary = "dateLost"
	}
	for _, key := range append([]string{primary}, backupDateKeys...) {
		if v, ok := lookup(item, key); ok {
			return FormatDate(v)
		}
		if v, ok := lookup(claim, key); ok {
			return FormatDate(v)
		}
	}
	return DateNotProvided
}

// FormatDate renders one raw date value as YYYY-MM-DD when it carries a
// structured or epoch timestamp, and as its literal text otherwise.
func FormatDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.Format("2006-01-02")
	case string:
		return d
	case int:
		return epoch(int64(d))
	case int64:
		return epoch(d)
	case float64:
		return epoch(int64(d))
	case json.Number:
		f, err := d.Float64()
		if err != nil {
			return d.String()
		}
		return epoch(int64(f))
	case map[string]any:
		// Firestore-style timestamp serialized as {seconds, nanos}.
		if secs, ok := d["seconds"]; ok {
			switch s := secs.(type) {
			case int64:
				return epoch(s)
			case float64:
				return epoch(int64(s))
			case json.Number:
				f, err := s.Float64()
				if err == nil {
					return epoch(int64(f))
				}
			}
			return UnknownDateFormat
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

func epoch(secs int64) string {
	return time.Unix(secs, 0).UTC().Format("2006-01-02")
}

// firstOf returns the first present non-empty value for any key in order,
// exhausting the key list against each record before moving to the next.
func firstOf(keys []string, records ...domain.Record) string {
	for _, rec := range records {
		for _, key := range keys {
			if v, ok := lookup(rec, key); ok {
				return stringify(v)
			}
		}
	}
	return ""
}

func lookup(rec domain.Record, key string) (any, bool) {
	if rec == nil {
		return nil, false
	}
	v, ok := rec[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil, false
	}
	return v, true
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func withDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
