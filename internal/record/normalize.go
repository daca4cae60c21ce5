package record

import "math"

// Normalize validates raw and converts it into a Record.
//
// Required fields: id, created_at, text, user.id, user.screen_name, user.name.
// Count fields that are negative (or do not fit an int32) are dropped to
// absent rather than reported, as is a utc_offset outside the int32 range.
// Coordinates are read as [lon, lat].
func Normalize(raw Raw) (Record, error) {
	var (
		rec Record
		err error
	)

	if rec.RecordID, err = requiredID(raw, "id", "id"); err != nil {
		return Record{}, err
	}

	created, err := requiredString(raw, "created_at", "created_at")
	if err != nil {
		return Record{}, err
	}
	if rec.CreatedAt, err = ParseDate(created); err != nil {
		return Record{}, err
	}

	text, err := requiredString(raw, "text", "text")
	if err != nil {
		return Record{}, err
	}
	rec.Text = CleanText(text, MaxTextLen)

	if rec.ResharedFromID, err = reshareOf(raw); err != nil {
		return Record{}, err
	}

	if err := normalizeAuthor(raw, &rec); err != nil {
		return Record{}, err
	}

	if rec.Lon, rec.Lat, err = coordinates(raw); err != nil {
		return Record{}, err
	}

	return rec, nil
}

func reshareOf(raw Raw) (*uint64, error) {
	v, ok := present(raw, "retweeted_status")
	if !ok {
		return nil, nil
	}
	orig, ok := v.(map[string]any)
	if !ok {
		return nil, &InvalidFieldError{Field: "retweeted_status", Reason: "not an object"}
	}
	id, err := requiredID(orig, "id", "retweeted_status.id")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func normalizeAuthor(raw Raw, rec *Record) error {
	v, ok := present(raw, "user")
	if !ok {
		return &MissingFieldError{Field: "user"}
	}
	user, ok := v.(map[string]any)
	if !ok {
		return &InvalidFieldError{Field: "user", Reason: "not an object"}
	}

	var err error
	if rec.AuthorID, err = requiredID(user, "id", "user.id"); err != nil {
		return err
	}

	handle, err := requiredString(user, "screen_name", "user.screen_name")
	if err != nil {
		return err
	}
	rec.AuthorHandle = CleanText(handle, MaxHandleLen)

	name, err := requiredString(user, "name", "user.name")
	if err != nil {
		return err
	}
	rec.AuthorName = CleanText(name, MaxNameLen)

	if rec.AuthorLocation, err = optionalString(user, "location", "user.location", MaxLocationLen); err != nil {
		return err
	}
	if rec.AuthorTimezone, err = optionalString(user, "time_zone", "user.time_zone", MaxTimezoneLen); err != nil {
		return err
	}

	offset, err := optionalInt(user, "utc_offset", "user.utc_offset")
	if err != nil {
		return err
	}
	if offset != nil && *offset >= math.MinInt32 && *offset <= math.MaxInt32 {
		o := int32(*offset)
		rec.AuthorUTCOffset = &o
	}

	if rec.AuthorGeoEnabled, err = optionalBool(user, "geo_enabled", "user.geo_enabled"); err != nil {
		return err
	}

	counts := []struct {
		key string
		dst **int32
	}{
		{"followers_count", &rec.AuthorFollowersCount},
		{"friends_count", &rec.AuthorFriendsCount},
		{"statuses_count", &rec.AuthorStatusesCount},
	}
	for _, c := range counts {
		n, err := optionalInt(user, c.key, "user."+c.key)
		if err != nil {
			return err
		}
		*c.dst = sanitizeCount(n)
	}
	return nil
}

// sanitizeCount maps negative or out-of-range counts to absent.
func sanitizeCount(n *int64) *int32 {
	if n == nil || *n < 0 || *n > math.MaxInt32 {
		return nil
	}
	v := int32(*n)
	return &v
}

// coordinates accepts either a GeoJSON-style object {"coordinates": [lon, lat]}
// or a bare [lon, lat] array.
func coordinates(raw Raw) (lon, lat *float64, err error) {
	v, ok := present(raw, "coordinates")
	if !ok {
		return nil, nil, nil
	}
	if obj, isObj := v.(map[string]any); isObj {
		inner, ok := present(obj, "coordinates")
		if !ok {
			return nil, nil, &MissingFieldError{Field: "coordinates.coordinates"}
		}
		v = inner
	}
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return nil, nil, &InvalidFieldError{Field: "coordinates", Reason: "expected [lon, lat] pair"}
	}
	x, err := toFloat(pair[0], "coordinates[0]")
	if err != nil {
		return nil, nil, err
	}
	y, err := toFloat(pair[1], "coordinates[1]")
	if err != nil {
		return nil, nil, err
	}
	return &x, &y, nil
}
