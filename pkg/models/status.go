package models

import (
	"bytes"
	"encoding/json"
)

// Status is the tri-state verdict shared by every check
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// StatusRecord pairs a verdict with the detail shown next to it
type StatusRecord struct {
	Status Status `json:"status"`
	Detail string `json:"detail"`
}

// Pass creates a passing record
func Pass(detail string) StatusRecord {
	return StatusRecord{Status: StatusPass, Detail: detail}
}

// Warn creates an advisory record
func Warn(detail string) StatusRecord {
	return StatusRecord{Status: StatusWarn, Detail: detail}
}

// Fail creates a failing record
func Fail(detail string) StatusRecord {
	return StatusRecord{Status: StatusFail, Detail: detail}
}

func (s StatusRecord) Passed() bool { return s.Status == StatusPass }

// CheckKey names one checklist entry
type CheckKey string

// Photo checklist keys
const (
	CheckFaceCoverage         CheckKey = "faceCoverage"
	CheckHeadCentered         CheckKey = "headCentered"
	CheckFrontal              CheckKey = "frontal"
	CheckEyesOpen             CheckKey = "eyesOpen"
	CheckEarsVisible          CheckKey = "earsVisible"
	CheckPlainWhiteBackground CheckKey = "plainWhiteBackground"
	CheckNoShadows            CheckKey = "noShadows"
	CheckSharpness            CheckKey = "sharpness"
	CheckNaturalExpression    CheckKey = "naturalExpression"
	CheckHairClear            CheckKey = "hairClear"
	CheckNoGlare              CheckKey = "noGlare"
	CheckNoRestrictedItems    CheckKey = "noRestrictedItems"
	CheckNameDatePrinted      CheckKey = "nameDatePrinted"
	CheckRecency              CheckKey = "recency"
	CheckFileFormat           CheckKey = "fileFormat"
	CheckFileSize             CheckKey = "fileSize"
)

// Signature-only checklist keys
const (
	CheckDimensions      CheckKey = "dimensions"
	CheckThreeSignatures CheckKey = "threeSignatures"
	CheckContrast        CheckKey = "contrast"
	CheckSpacing         CheckKey = "spacing"
	CheckAlignment       CheckKey = "alignment"
	CheckOrientation     CheckKey = "orientation"
)

// PhotoCheckKeys is the fixed photo checklist, in display order
var PhotoCheckKeys = []CheckKey{
	CheckFaceCoverage,
	CheckHeadCentered,
	CheckFrontal,
	CheckEyesOpen,
	CheckEarsVisible,
	CheckPlainWhiteBackground,
	CheckNoShadows,
	CheckSharpness,
	CheckNaturalExpression,
	CheckHairClear,
	CheckNoGlare,
	CheckNoRestrictedItems,
	CheckNameDatePrinted,
	CheckRecency,
	CheckFileFormat,
	CheckFileSize,
}

// SignatureCheckKeys is the fixed signature checklist, in display order
var SignatureCheckKeys = []CheckKey{
	CheckFileFormat,
	CheckFileSize,
	CheckDimensions,
	CheckThreeSignatures,
	CheckSharpness,
	CheckPlainWhiteBackground,
	CheckNoShadows,
	CheckContrast,
	CheckSpacing,
	CheckAlignment,
	CheckOrientation,
}

// Checklist maps a fixed, ordered key set to status records.
// Every key is always present; keys that were never set read as a warning.
type Checklist struct {
	keys    []CheckKey
	records map[CheckKey]StatusRecord
}

// NewChecklist creates a checklist over the given keys with every entry pending
func NewChecklist(keys []CheckKey) *Checklist {
	c := &Checklist{
		keys:    append([]CheckKey(nil), keys...),
		records: make(map[CheckKey]StatusRecord, len(keys)),
	}
	for _, key := range keys {
		c.records[key] = Warn("Check did not run.")
	}
	return c
}

// Set stores a record for a known key. Unknown keys are ignored so the key set stays fixed.
func (c *Checklist) Set(key CheckKey, record StatusRecord) {
	if _, ok := c.records[key]; !ok {
		return
	}
	c.records[key] = record
}

// Get returns the record for key
func (c *Checklist) Get(key CheckKey) (StatusRecord, bool) {
	record, ok := c.records[key]
	return record, ok
}

// Status is a shorthand for the verdict of key
func (c *Checklist) Status(key CheckKey) Status {
	return c.records[key].Status
}

// Keys returns the key set in display order
func (c *Checklist) Keys() []CheckKey {
	return append([]CheckKey(nil), c.keys...)
}

func (c *Checklist) Len() int { return len(c.keys) }

// Count returns how many entries carry the given verdict
func (c *Checklist) Count(status Status) int {
	n := 0
	for _, key := range c.keys {
		if c.records[key].Status == status {
			n++
		}
	}
	return n
}

// MarshalJSON writes the checklist as an object preserving display order
func (c *Checklist) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(key))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.records[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dedupe keeps the first occurrence of every message, preserving order
func Dedupe(messages []string) []string {
	seen := make(map[string]struct{}, len(messages))
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
