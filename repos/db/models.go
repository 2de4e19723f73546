package db

import (
	"database/sql"
	"encoding/json"

	"github.com/rolegraph/rolegraph"
)

// Fields and conditions are stored as JSON text columns; NULL means the
// rule carries none.

func encodeFields(fields []string) (sql.NullString, error) {
	if len(fields) == 0 {
		return sql.NullString{}, nil
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return sql.NullString{}, err
	}

	return sql.NullString{String: string(b), Valid: true}, nil
}

func encodeConditions(conditions rolegraph.Conditions) (sql.NullString, error) {
	if len(conditions) == 0 {
		return sql.NullString{}, nil
	}

	b, err := json.Marshal(conditions)
	if err != nil {
		return sql.NullString{}, err
	}

	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodePermissionRow(
	name string,
	action string,
	subject string,
	fields sql.NullString,
	conditions sql.NullString,
	inverted bool,
	reason sql.NullString,
) (rolegraph.Permission, error) {
	permission := rolegraph.Permission{
		Name:     name,
		Action:   action,
		Subject:  subject,
		Inverted: inverted,
		Reason:   reason.String,
	}

	if fields.Valid {
		if err := json.Unmarshal([]byte(fields.String), &permission.Fields); err != nil {
			return rolegraph.Permission{}, err
		}
	}

	if conditions.Valid {
		if err := json.Unmarshal([]byte(conditions.String), &permission.Conditions); err != nil {
			return rolegraph.Permission{}, err
		}
	}

	return permission, nil
}

func encodeReason(reason string) sql.NullString {
	if reason == "" {
		return sql.NullString{}
	}

	return sql.NullString{String: reason, Valid: true}
}
