// Package deliver selects where a subscription starts.
package deliver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidFormat      = errors.New("invalid deliver policy format")
	ErrEmptyBlockHeight   = errors.New("deliver policy block height is empty")
	ErrInvalidBlockHeight = errors.New("deliver policy block height is invalid")
)

const (
	newLiteral       = "new"
	fromBlockLiteral = "from_block"
)

// Kind distinguishes live-only from replaying subscriptions.
type Kind uint8

const (
	New Kind = iota
	FromBlock
)

// Policy is either New or FromBlock with a start height.
type Policy struct {
	kind   Kind
	height uint64
}

// NewPolicy delivers only records published after the subscription starts.
func NewPolicy() Policy {
	return Policy{kind: New}
}

// FromBlockPolicy replays stored records from height before switching to live delivery.
func FromBlockPolicy(height uint64) Policy {
	return Policy{kind: FromBlock, height: height}
}

// Kind returns the policy kind.
func (p Policy) Kind() Kind {
	return p.kind
}

// Height is the replay start; it reports false for New.
func (p Policy) Height() (uint64, bool) {
	return p.height, p.kind == FromBlock
}

// IsHistorical reports whether stored records are replayed.
func (p Policy) IsHistorical() bool {
	return p.kind == FromBlock
}

func (p Policy) String() string {
	if p.kind == FromBlock {
		return fromBlockLiteral + ":" + strconv.FormatUint(p.height, 10)
	}
	return newLiteral
}

// Parse reads "new", "from_block:<height>" or "from_block=<height>".
func Parse(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	if s == newLiteral {
		return NewPolicy(), nil
	}

	for _, sep := range []string{":", "="} {
		value, ok := strings.CutPrefix(s, fromBlockLiteral+sep)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return Policy{}, ErrEmptyBlockHeight
		}
		height, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return Policy{}, fmt.Errorf("%q: %w", value, ErrInvalidBlockHeight)
		}
		return FromBlockPolicy(height), nil
	}
	return Policy{}, fmt.Errorf("%q: %w", s, ErrInvalidFormat)
}

// MarshalJSON writes the string form.
func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

type fromBlockObject struct {
	FromBlock *struct {
		BlockHeight *uint64 `json:"block_height"`
	} `json:"from_block"`
}

// UnmarshalJSON accepts the string form, "new" or {"from_block":{"block_height":N}}.
func (p *Policy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var obj fromBlockObject
	if err := json.Unmarshal(data, &obj); err != nil || obj.FromBlock == nil {
		return fmt.Errorf("%s: %w", data, ErrInvalidFormat)
	}
	if obj.FromBlock.BlockHeight == nil {
		return ErrEmptyBlockHeight
	}
	*p = FromBlockPolicy(*obj.FromBlock.BlockHeight)
	return nil
}
