package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/sync/errgroup"

	"dynasource/internal/domain"
	"dynasource/internal/timefmt"
)

// Sentinel cell values for binary attributes, which have no tabular rendering.
const (
	binaryPlaceholder    = "[B]"
	binarySetPlaceholder = "[BS]"
)

// normalizeRows decodes raw items into plain cell values and re-renders the
// declared date-time fields. Rows are independent, so the work is fanned out
// across a bounded group; each worker writes only its own index, which keeps
// item order intact.
func (s *Service) normalizeRows(ctx context.Context, items []map[string]types.AttributeValue, rules map[string]timefmt.Concrete) ([]map[string]any, error) {
	rows := make([]map[string]any, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = s.normalizeRow(item, rules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) normalizeRow(item map[string]types.AttributeValue, rules map[string]timefmt.Concrete) map[string]any {
	row := make(map[string]any, len(item))
	for name, av := range item {
		value := decodeAttribute(av)
		if rule, ok := rules[name]; ok {
			value = s.normalizeDateTime(name, value, rule)
		}
		row[name] = value
	}
	return row
}

// normalizeDateTime re-renders one decoded cell under the field's rule.
// A value the rule cannot parse keeps its raw decoded form; the mismatch is
// per cell, never fatal to the row or the request.
func (s *Service) normalizeDateTime(name string, value any, rule timefmt.Concrete) any {
	if value == nil || !rule.Resolved() {
		return value
	}

	var (
		t  time.Time
		ok bool
	)
	switch v := value.(type) {
	case string:
		t, ok = rule.ParseString(v)
	case int64:
		t, ok = rule.ParseInt(v)
	case float64:
		// Fractional epoch values truncate toward zero, matching how the
		// source encodes them.
		t, ok = rule.ParseInt(int64(v))
	default:
		ok = false
	}
	if !ok {
		s.logger.Debug("date-time value did not match declared format",
			"field", name, "value", value)
		return value
	}
	return domain.TimeString(timefmt.Display(t, s.display))
}

// decodeAttribute flattens one DynamoDB attribute into a cell value.
//
//	S       -> string
//	N       -> int64, or float64 when not integral
//	BOOL    -> bool
//	NULL    -> nil
//	B       -> "[B]" placeholder
//	BS      -> "[BS]" placeholder
//	M, L,
//	SS, NS  -> JSON-encoded json.RawMessage
//
// Anything unrecognized degrades to the opaque placeholder rather than
// dropping the cell.
func decodeAttribute(av types.AttributeValue) any {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return parseNumber(v.Value)
	case *types.AttributeValueMemberBOOL:
		return v.Value
	case *types.AttributeValueMemberNULL:
		return nil
	case *types.AttributeValueMemberB:
		return binaryPlaceholder
	case *types.AttributeValueMemberBS:
		return binarySetPlaceholder
	case *types.AttributeValueMemberSS:
		return encodeJSON(v.Value)
	case *types.AttributeValueMemberM:
		var m map[string]any
		if err := attributevalue.Unmarshal(av, &m); err != nil {
			return binaryPlaceholder
		}
		return encodeJSON(m)
	case *types.AttributeValueMemberL:
		var l []any
		if err := attributevalue.Unmarshal(av, &l); err != nil {
			return binaryPlaceholder
		}
		return encodeJSON(l)
	case *types.AttributeValueMemberNS:
		nums := make([]any, 0, len(v.Value))
		for _, n := range v.Value {
			nums = append(nums, parseNumber(n))
		}
		return encodeJSON(nums)
	default:
		slog.Default().Debug("unrecognized attribute type", "type", fmt.Sprintf("%T", av))
		return binaryPlaceholder
	}
}

// parseNumber keeps integers exact and falls back to float64 for the rest.
// DynamoDB numbers wider than both are out of range for a tabular cell and
// degrade to their textual form.
func parseNumber(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func encodeJSON(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return binaryPlaceholder
	}
	return json.RawMessage(b)
}
