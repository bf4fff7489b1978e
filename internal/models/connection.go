package models

import (
	"github.com/chapterhq/lodge/internal/storage"
	"github.com/gobuffalo/pop/v6"
)

type Pagination struct {
	Page    uint64
	PerPage uint64
	Count   uint64
}

func (p *Pagination) Offset() uint64 {
	return (p.Page - 1) * p.PerPage
}

type SortDirection string

const Ascending SortDirection = "ASC"
const Descending SortDirection = "DESC"
const CreatedAt = "created_at"

type SortParams struct {
	Fields []SortField
}

type SortField struct {
	Name string
	Dir  SortDirection
}

// TruncateAll deletes all data from the database. Not intended for use
// outside of tests.
func TruncateAll(conn *storage.Connection) error {
	return conn.Transaction(func(tx *storage.Connection) error {
		tables := []string{
			(&pop.Model{Value: Member{}}).TableName(),
			(&pop.Model{Value: VisibilitySettings{}}).TableName(),
			(&pop.Model{Value: Announcement{}}).TableName(),
			(&pop.Model{Value: Forum{}}).TableName(),
			(&pop.Model{Value: Thread{}}).TableName(),
			(&pop.Model{Value: Post{}}).TableName(),
			(&pop.Model{Value: ChapterOfficer{}}).TableName(),
			(&pop.Model{Value: OfficerHistory{}}).TableName(),
			(&pop.Model{Value: Rush{}}).TableName(),
			(&pop.Model{Value: RushEvent{}}).TableName(),
			(&pop.Model{Value: Potential{}}).TableName(),
			(&pop.Model{Value: Group{}}).TableName(),
			(&pop.Model{Value: GroupMembership{}}).TableName(),
			(&pop.Model{Value: EmailChangeRequest{}}).TableName(),
			(&pop.Model{Value: ContactRecord{}}).TableName(),
			(&pop.Model{Value: InformationCard{}}).TableName(),
		}

		for _, tableName := range tables {
			if err := tx.RawQuery("DELETE FROM " + tableName + " CASCADE").Exec(); err != nil {
				return err
			}
		}

		return nil
	})
}
