package pagination

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/junaydb/kanban-board/domain"
)

// SortBy selects one of the three interchangeable task orderings.
type SortBy string

const (
	SortByCreated  SortBy = "created"
	SortByDueDate  SortBy = "dueDate"
	SortByPosition SortBy = "position"
)

// ParseSortBy validates a raw sortBy value, defaulting to position like the UI.
func ParseSortBy(raw string) (SortBy, error) {
	switch SortBy(raw) {
	case SortByCreated, SortByDueDate, SortByPosition:
		return SortBy(raw), nil
	case "":
		return SortByPosition, nil
	}
	return "", domain.NewError(domain.ErrCodeInvalid, "invalid sortBy: "+raw)
}

// SortOrder is the requested direction for created/dueDate sorts.
type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// ParseSortOrder validates a raw sortOrder value, defaulting to DESC.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(raw) {
	case OrderAsc, OrderDesc:
		return SortOrder(raw), nil
	case "":
		return OrderDesc, nil
	}
	return "", domain.NewError(domain.ErrCodeInvalid, "invalid sortOrder: "+raw)
}

// ErrMalformedCursor is the sentinel wrapped by every cursor decode failure,
// so callers can distinguish a bad continuation token from other invalid input.
var ErrMalformedCursor = domain.NewError(domain.ErrCodeInvalid, "malformed cursor")

func malformed(field string) error {
	return domain.WrapError(domain.ErrCodeInvalid,
		fmt.Sprintf("malformed cursor: field %q is missing or invalid", field),
		ErrMalformedCursor)
}

// Cursor is the decoded continuation token: the last seen sort key plus the
// tie-break id. Exactly one variant exists per sort dimension. Tokens are
// opaque to clients and carry no tamper protection; they only encode a
// comparison key already scoped to an ownership-checked board.
type Cursor interface {
	sortBy() SortBy
}

// CreatedCursor continues a (createdAt, id) ordered page.
type CreatedCursor struct {
	PrevID        int64
	PrevCreatedAt time.Time
}

func (CreatedCursor) sortBy() SortBy { return SortByCreated }

// DueDateCursor continues a (dueDate, id) ordered page. A nil PrevDueDate
// means the previous page ended inside the trailing block of tasks without a
// due date.
type DueDateCursor struct {
	PrevID      int64
	PrevDueDate *time.Time
}

func (DueDateCursor) sortBy() SortBy { return SortByDueDate }

// PositionCursor continues a position-ordered page: a plain start index into
// the board's per-status id array.
type PositionCursor struct {
	Start int
}

func (PositionCursor) sortBy() SortBy { return SortByPosition }

// cursorTimeLayout keeps full timestamp resolution on the wire. The store
// keeps microseconds, so a lossy layout would re-match or skip rows at page
// boundaries.
const cursorTimeLayout = time.RFC3339Nano

type createdCursorWire struct {
	PrevID        int64  `json:"prevId"`
	PrevCreatedAt string `json:"prevCreatedAt"`
}

type dueDateCursorWire struct {
	PrevID      int64   `json:"prevId"`
	PrevDueDate *string `json:"prevDueDate"`
}

// Encode serializes a cursor into its transport token: base64 of canonical
// JSON for created/dueDate, a bare decimal index for position.
func Encode(c Cursor) string {
	switch cur := c.(type) {
	case CreatedCursor:
		return encodeJSON(createdCursorWire{
			PrevID:        cur.PrevID,
			PrevCreatedAt: cur.PrevCreatedAt.UTC().Format(cursorTimeLayout),
		})
	case DueDateCursor:
		wire := dueDateCursorWire{PrevID: cur.PrevID}
		if cur.PrevDueDate != nil {
			formatted := cur.PrevDueDate.UTC().Format(cursorTimeLayout)
			wire.PrevDueDate = &formatted
		}
		return encodeJSON(wire)
	case PositionCursor:
		return strconv.Itoa(cur.Start)
	}
	return ""
}

func encodeJSON(wire any) string {
	payload, err := json.Marshal(wire)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(payload)
}

// Decode parses and shape-checks a token against the active sort dimension.
// A structurally valid token of the wrong shape (for example a dueDate cursor
// handed to a created sort) is rejected, never coerced.
func Decode(token string, by SortBy) (Cursor, error) {
	if by == SortByPosition {
		start, err := strconv.Atoi(token)
		if err != nil || start < 0 {
			return nil, malformed("cursor")
		}
		return PositionCursor{Start: start}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, malformed("cursor")
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return nil, err
	}

	switch by {
	case SortByCreated:
		return decodeCreated(fields)
	case SortByDueDate:
		return decodeDueDate(fields)
	}
	return nil, malformed("cursor")
}

func decodeFields(raw []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, malformed("cursor")
	}
	return fields, nil
}

func decodeCreated(fields map[string]json.RawMessage) (Cursor, error) {
	if len(fields) != 2 {
		return nil, malformed("cursor")
	}
	id, err := intField(fields, "prevId")
	if err != nil {
		return nil, err
	}
	ts, err := timeField(fields, "prevCreatedAt")
	if err != nil {
		return nil, err
	}
	return CreatedCursor{PrevID: id, PrevCreatedAt: ts}, nil
}

func decodeDueDate(fields map[string]json.RawMessage) (Cursor, error) {
	if len(fields) != 2 {
		return nil, malformed("cursor")
	}
	id, err := intField(fields, "prevId")
	if err != nil {
		return nil, err
	}
	raw, ok := fields["prevDueDate"]
	if !ok {
		return nil, malformed("prevDueDate")
	}
	if bytes.Equal(raw, []byte("null")) {
		return DueDateCursor{PrevID: id}, nil
	}
	ts, err := timeField(fields, "prevDueDate")
	if err != nil {
		return nil, err
	}
	return DueDateCursor{PrevID: id, PrevDueDate: &ts}, nil
}

func intField(fields map[string]json.RawMessage, name string) (int64, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, malformed(name)
	}
	var value int64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, malformed(name)
	}
	return value, nil
}

func timeField(fields map[string]json.RawMessage, name string) (time.Time, error) {
	raw, ok := fields[name]
	if !ok {
		return time.Time{}, malformed(name)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return time.Time{}, malformed(name)
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, malformed(name)
	}
	return ts, nil
}
