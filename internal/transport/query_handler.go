package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/access"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/deliver"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/stream"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
	"go.uber.org/zap"
)

// QueryPath prefixes the historical query endpoint; the subject identifier follows it.
const QueryPath = "/api/v1/query/"

const (
	fromBlockParam = "from_block"
	afterParam     = "after"
	limitParam     = "limit"

	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

var ErrBadQuery = errors.New("invalid query")

// QueryResult is one page of stored records. Next is the cursor of the following page.
type QueryResult struct {
	Data []stream.Response `json:"data"`
	Next string            `json:"next,omitempty"`
}

type queryError struct {
	Error string `json:"error"`
}

// QueryHandler serves paged reads of stored records over plain HTTP.
type QueryHandler struct {
	reader    RecordReader
	auth      Authenticator
	gate      QueryGate
	registry  *subject.Registry
	decoder   record.Decoder
	metrics   QueryMetrics
	namespace string
	logger    *zap.Logger
}

type query struct {
	subject *subject.Subject
	from    uint64
	after   *record.Order
	limit   int
}

// NewQueryHandler constructs a QueryHandler reading records of namespace.
func NewQueryHandler(
	reader RecordReader,
	auth Authenticator,
	gate QueryGate,
	registry *subject.Registry,
	decoder record.Decoder,
	metrics QueryMetrics,
	namespace string,
	logger *zap.Logger,
) (*QueryHandler, error) {
	switch {
	case reader == nil:
		return nil, errors.New("query record reader is required")
	case auth == nil:
		return nil, errors.New("query authenticator is required")
	case gate == nil:
		return nil, errors.New("query gate is required")
	case registry == nil:
		return nil, errors.New("query subject registry is required")
	case decoder == nil:
		return nil, errors.New("query decoder is required")
	case metrics == nil:
		return nil, errors.New("query metrics is required")
	}

	return &QueryHandler{
		reader:    reader,
		auth:      auth,
		gate:      gate,
		registry:  registry,
		decoder:   decoder,
		metrics:   metrics,
		namespace: namespace,
		logger:    logger.Named("query"),
	}, nil
}

// ServeHTTP answers GET /api/v1/query/{subject} with one page of records in stream order.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		started = time.Now()
		label   string
		rows    int
		err     error
	)
	defer func() {
		h.metrics.ObserveQuery(label, err, rows, started)
	}()

	if r.Method != http.MethodGet {
		err = fmt.Errorf("method %s: %w", r.Method, ErrBadQuery)
		w.Header().Set("Allow", http.MethodGet)
		writeQueryError(w, http.StatusMethodNotAllowed, err)
		return
	}

	cred, err := authenticate(h.auth, r)
	if err != nil {
		writeQueryError(w, http.StatusUnauthorized, err)
		return
	}

	q, err := h.parse(strings.TrimPrefix(r.URL.Path, QueryPath), r.URL.Query())
	if err != nil {
		writeQueryError(w, http.StatusBadRequest, err)
		return
	}
	label = q.subject.ID()

	if err = h.gate.AuthorizeQuery(cred, q.subject); err != nil {
		writeQueryError(w, gateStatus(err), err)
		return
	}

	ctx := r.Context()
	watermark, ok, err := h.reader.MaxBlockHeight(ctx, h.namespace)
	if err != nil {
		err = fmt.Errorf("read watermark: %w", err)
		h.logger.Warn("query failed", zap.String("subject", label), zap.Error(err))
		writeQueryError(w, http.StatusServiceUnavailable, err)
		return
	}
	if ok {
		if err = h.gate.CheckLookback(cred, deliver.FromBlockPolicy(q.start()), watermark); err != nil {
			writeQueryError(w, gateStatus(err), err)
			return
		}
	}

	packets, err := h.reader.FindRange(ctx, record.Range{
		Subject:    q.subject,
		Namespace:  h.namespace,
		FromHeight: q.from,
		After:      q.after,
		Limit:      q.limit,
	})
	if err != nil {
		err = fmt.Errorf("find %s: %w", q.subject.Wildcard(), err)
		h.logger.Warn("query failed", zap.String("subject", label), zap.Error(err))
		writeQueryError(w, http.StatusServiceUnavailable, err)
		return
	}

	result := QueryResult{Data: make([]stream.Response, 0, len(packets))}
	for _, p := range packets {
		v, decodeErr := p.Decode(h.decoder)
		if decodeErr != nil {
			err = fmt.Errorf("%w: %s: %w", stream.ErrDecode, p.Path(), decodeErr)
			h.logger.Error("stored record is unreadable", zap.Error(err))
			writeQueryError(w, http.StatusInternalServerError, err)
			return
		}
		result.Data = append(result.Data, stream.RecordResponse(stream.Item{Packet: p, Value: v}))
	}
	if len(packets) == q.limit {
		result.Next = formatCursor(packets[len(packets)-1].Order)
	}
	rows = len(result.Data)

	writeQueryJSON(w, http.StatusOK, result)
}

func (h *QueryHandler) parse(subjectID string, values url.Values) (query, error) {
	q := query{limit: defaultQueryLimit}

	t, err := h.registry.Lookup(subjectID)
	if err != nil {
		return q, err
	}

	payload := subject.Payload{Subject: t.ID, Params: make(map[string]json.RawMessage)}
	for name, vs := range values {
		if len(vs) != 1 {
			return q, fmt.Errorf("%s given %d times: %w", name, len(vs), ErrBadQuery)
		}
		v := vs[0]
		switch name {
		case apiKeyParam:
		case fromBlockParam:
			if q.from, err = strconv.ParseUint(v, 10, 64); err != nil {
				return q, fmt.Errorf("%s %q: %w", fromBlockParam, v, ErrBadQuery)
			}
		case afterParam:
			if q.after, err = parseCursor(v); err != nil {
				return q, err
			}
		case limitParam:
			if q.limit, err = strconv.Atoi(v); err != nil || q.limit < 1 || q.limit > maxQueryLimit {
				return q, fmt.Errorf("%s must be within 1..%d: %w", limitParam, maxQueryLimit, ErrBadQuery)
			}
		default:
			if v == "" {
				continue
			}
			if f, ok := t.Field(name); ok && f.Kind == subject.Uint {
				payload.Params[name] = json.RawMessage(v)
				continue
			}
			quoted, _ := json.Marshal(v)
			payload.Params[name] = quoted
		}
	}

	if q.subject, err = h.registry.FromPayload(payload); err != nil {
		return q, err
	}
	return q, nil
}

// start is the lowest height the query can return.
func (q query) start() uint64 {
	if q.after != nil && q.after.BlockHeight > q.from {
		return q.after.BlockHeight
	}
	return q.from
}

// formatCursor renders an order as height[.tx[.sub]].
func formatCursor(o record.Order) string {
	c := strconv.FormatUint(o.BlockHeight, 10)
	if o.TxIndex != nil {
		c += "." + strconv.FormatUint(uint64(*o.TxIndex), 10)
	}
	if o.SubIndex != nil {
		c += "." + strconv.FormatUint(uint64(*o.SubIndex), 10)
	}
	return c
}

func parseCursor(s string) (*record.Order, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return nil, fmt.Errorf("%s %q: %w", afterParam, s, ErrBadQuery)
	}
	height, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", afterParam, s, ErrBadQuery)
	}
	idx := make([]uint32, 0, 2)
	for _, part := range parts[1:] {
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", afterParam, s, ErrBadQuery)
		}
		idx = append(idx, uint32(v))
	}

	var o record.Order
	switch len(idx) {
	case 0:
		o = record.BlockOrder(height)
	case 1:
		o = record.TxOrder(height, idx[0])
	default:
		o = record.NestedOrder(height, idx[0], idx[1])
	}
	return &o, nil
}

func gateStatus(err error) int {
	if access.IsThrottled(err) {
		return http.StatusTooManyRequests
	}
	return http.StatusForbidden
}

func writeQueryError(w http.ResponseWriter, status int, err error) {
	writeQueryJSON(w, status, queryError{Error: err.Error()})
}

func writeQueryJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
