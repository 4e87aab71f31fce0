package app

import (
	"strconv"
	"strings"
)

/********** alias registries **********/

var hotelAliases = map[string][]string{
	"name":     {"name", "hotel_name", "title"},
	"location": {"location", "city", "address.city", "destination"},
	"price":    {"price", "price_per_night", "nightly_rate", "rate.amount"},
	"rooms":    {"rooms", "room_count", "rooms_total", "total_rooms"},
}

var reviewAliases = map[string][]string{
	"rating":  {"rating", "score", "stars", "rating.value"},
	"comment": {"comment", "text", "review", "body", "content"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstStr: first non-empty string for a named alias set.
func firstStr(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s, ok := lookupAny(m, p).(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// lookupFloat: number from several paths (float64/int/string like "8,0").
func lookupFloat(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func firstFloat(m map[string]any, paths ...string) float64 {
	f, _ := lookupFloat(m, paths...)
	return f
}

// firstMaps: first list of objects found at any of paths.
func firstMaps(m map[string]any, paths ...string) []map[string]any {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, it := range raw {
			if obj, ok := it.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

/********** catalog mappers **********/

// mapCatalogHotel leaves missing fields zero so validation rejects them.
func mapCatalogHotel(e map[string]any) CreateHotelInput {
	return CreateHotelInput{
		Name:     firstStr(e, hotelAliases, "name"),
		Location: firstStr(e, hotelAliases, "location"),
		Price:    firstFloat(e, hotelAliases["price"]...),
		Rooms:    firstFloat(e, hotelAliases["rooms"]...),
	}
}

func mapCatalogReviews(hotelID string, e map[string]any) []CreateReviewInput {
	raw := firstMaps(e, "reviews", "ratings", "guest_reviews")
	out := make([]CreateReviewInput, 0, len(raw))
	for _, r := range raw {
		in := CreateReviewInput{
			HotelID: hotelID,
			Comment: firstStr(r, reviewAliases, "comment"),
		}
		if v, ok := lookupFloat(r, reviewAliases["rating"]...); ok {
			in.Rating = &v
		}
		out = append(out, in)
	}
	return out
}
