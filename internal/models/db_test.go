package models

import (
	"testing"

	"github.com/gobuffalo/pop/v6"
	"github.com/stretchr/testify/assert"
)

const modelsTestConfig = "../../hack/test.env"

func TestTableNameNamespacing(t *testing.T) {
	cases := []struct {
		expected string
		value    interface{}
	}{
		{expected: "members", value: []*Member{}},
		{expected: "visibility_settings", value: []*VisibilitySettings{}},
		{expected: "announcements", value: []*Announcement{}},
		{expected: "forums", value: []*Forum{}},
		{expected: "threads", value: []*Thread{}},
		{expected: "posts", value: []*Post{}},
		{expected: "chapter_officers", value: []*ChapterOfficer{}},
		{expected: "officer_history", value: []*OfficerHistory{}},
	}

	for _, tc := range cases {
		m := &pop.Model{Value: tc.value}
		assert.Equal(t, tc.expected, m.TableName())
	}
}
