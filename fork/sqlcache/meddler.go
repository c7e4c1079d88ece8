package sqlcache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

func initMeddler() {
	meddler.Register("hash", HashMeddler{})
	meddler.Register("timeRFC3339", TimeRFC3339Meddler{})
}

// HashMeddler encodes or decodes the field value to or from string
type HashMeddler struct{}

// PreRead is called before a Scan operation for fields that have the HashMeddler
func (m HashMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(sql.NullString), nil
}

// PostRead is called after a Scan operation for fields that have the HashMeddler
func (m HashMeddler) PostRead(fieldPtr, scanTarget interface{}) error {
	nullStr, ok := scanTarget.(*sql.NullString)
	if !ok {
		return errors.New("scanTarget is not *sql.NullString")
	}

	switch field := fieldPtr.(type) {
	case *common.Hash:
		if nullStr.Valid {
			*field = common.HexToHash(nullStr.String)
		} else {
			*field = common.Hash{}
		}
	case **common.Hash:
		if !nullStr.Valid {
			*field = nil
			return nil
		}
		h := common.HexToHash(nullStr.String)
		*field = &h
	default:
		return errors.New("fieldPtr is neither *common.Hash nor **common.Hash")
	}
	return nil
}

// PreWrite is called before an Insert or Update operation for fields that have the HashMeddler
func (m HashMeddler) PreWrite(fieldPtr interface{}) (saveValue interface{}, err error) {
	switch field := fieldPtr.(type) {
	case common.Hash:
		return field.Hex(), nil
	case *common.Hash:
		if field == nil {
			return nil, nil
		}
		return field.Hex(), nil
	default:
		return nil, errors.New("fieldPtr is neither common.Hash nor *common.Hash")
	}
}

// TimeRFC3339Meddler encodes or decodes time.Time to/from a consistent RFC3339 format for the database.
type TimeRFC3339Meddler struct{}

// PreRead is called before a Scan operation for fields that have the TimeRFC3339Meddler.
func (m TimeRFC3339Meddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(sql.NullString), nil
}

// PostRead is called after a Scan operation for fields that have the TimeRFC3339Meddler.
func (m TimeRFC3339Meddler) PostRead(fieldPtr, scanTarget interface{}) error {
	nullStr, ok := scanTarget.(*sql.NullString)
	if !ok {
		return errors.New("scanTarget is not *sql.NullString")
	}

	field, ok := fieldPtr.(*time.Time)
	if !ok {
		return errors.New("fieldPtr is not *time.Time")
	}

	if !nullStr.Valid || nullStr.String == "" {
		*field = time.Time{}
		return nil
	}

	parsedTime, err := time.Parse(time.RFC3339, nullStr.String)
	if err != nil {
		return fmt.Errorf("failed to parse time in RFC3339 format: %w", err)
	}
	*field = parsedTime
	return nil
}

// PreWrite is called before an Insert or Update operation for fields that have the TimeRFC3339Meddler.
func (m TimeRFC3339Meddler) PreWrite(fieldPtr interface{}) (saveValue interface{}, err error) {
	field, ok := fieldPtr.(time.Time)
	if !ok {
		return nil, errors.New("fieldPtr is not time.Time")
	}
	if field.IsZero() {
		return nil, nil
	}
	return field.Truncate(time.Second).Format(time.RFC3339), nil
}
