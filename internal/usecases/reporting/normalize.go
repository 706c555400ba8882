package reporting

import (
	"context"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/log"
)

var timeType = reflect.TypeOf(time.Time{})

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decodeAll converte documentos brutos em entidades. Documentos que não
// puderem ser decodificados são descartados com aviso.
func decodeAll[T any](ctx context.Context, collection string, docs []domain.Document) []*T {
	out := make([]*T, 0, len(docs))

	for _, doc := range docs {
		item := new(T)
		if err := decodeDocument(doc, item); err != nil {
			log.ForContext(ctx).WithFields(log.Fields{
				"collection": collection,
				"id":         doc["id"],
			}).WithError(err).Warn("Documento ignorado por formato inválido")
			continue
		}
		out = append(out, item)
	}

	return out
}

func decodeDocument(doc domain.Document, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timestampHook,
			lenientNumberHook,
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]any(doc))
}

func timestampHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}

	if t, ok := ParseTimestamp(data); ok {
		return t, nil
	}

	return time.Time{}, nil
}

// lenientNumberHook transforma valores numéricos ilegíveis em zero
func lenientNumberHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}

	if data == nil {
		return 0, nil
	}

	switch v := data.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, nil
		}
		return f, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, nil
		}
		return v, nil
	case bool:
		return data, nil
	}

	switch reflect.ValueOf(data).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return 0, nil
	}

	return data, nil
}

// ParseTimestamp aceita os formatos de data encontrados nos documentos do CRM:
// time.Time, tipos com método Time() (BSON DateTime), strings RFC3339 ou YYYY-MM-DD,
// epoch em milissegundos e mapas {seconds, nanoseconds}.
func ParseTimestamp(data any) (time.Time, bool) {
	switch v := data.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v.UTC(), !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return v.UTC(), !v.IsZero()
	case interface{ Time() time.Time }:
		t := v.Time()
		return t.UTC(), !t.IsZero()
	case string:
		return parseTimestampString(v)
	case int, int32, int64, float32, float64, uint32, uint64:
		ms, ok := toFloat(v)
		if !ok || ms <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}

	fields, ok := toStringMap(data)
	if !ok {
		return time.Time{}, false
	}

	seconds, ok := lookupNumber(fields, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := lookupNumber(fields, "nanoseconds", "_nanoseconds")

	return time.Unix(int64(seconds), int64(nanos)).UTC(), true
}

func parseTimestampString(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC(), true
	}

	return time.Time{}, false
}

func toStringMap(data any) (map[string]any, bool) {
	if m, ok := data.(map[string]any); ok {
		return m, true
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func lookupNumber(fields map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if raw, exists := fields[key]; exists {
			return toFloat(raw)
		}
	}
	return 0, false
}

func toFloat(data any) (float64, bool) {
	switch v := data.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}
