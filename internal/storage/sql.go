package storage

import (
	"database/sql"
	"database/sql/driver"
)

// UpdateOnly writes just the named columns. pop's UpdateColumns silently
// skips names the model does not have, so the list is validated first.
func (conn *Connection) UpdateOnly(model interface{}, includeColumns ...string) error {
	if _, err := getExcludedColumns(model, includeColumns...); err != nil {
		return err
	}
	includeColumns = append(includeColumns, "updated_at")
	return conn.UpdateColumns(model, includeColumns...)
}

// NullString is a string that can be null, marshaled as "" when absent.
type NullString string

func (s NullString) String() string {
	return string(s)
}

func (s *NullString) Scan(value interface{}) error {
	ns := &sql.NullString{}
	if err := ns.Scan(value); err != nil {
		return err
	}
	*s = NullString(ns.String)
	return nil
}

func (s NullString) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return string(s), nil
}
