package store

import (
	"context"
	"sort"
	"testing"

	"entgo.io/ent"

	"github.com/Bradwave/parabolawhat/ent/schema"
)

func schemaColumns(s ent.Interface) []string {
	var cols []string
	for _, m := range s.Mixin() {
		for _, f := range m.Fields() {
			cols = append(cols, f.Descriptor().Name)
		}
	}
	for _, f := range s.Fields() {
		cols = append(cols, f.Descriptor().Name)
	}
	sort.Strings(cols)
	return cols
}

func tableColumns(t *testing.T, s *Store, table string) []string {
	t.Helper()
	rows, err := s.DB().QueryContext(context.Background(), "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("table info %s: %v", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

func TestMigrateMatchesEntSchema(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		table  string
		schema ent.Interface
	}{
		{tableKV, schema.KV{}},
		{tableAnswers, schema.AnswerEvent{}},
		{tableLLM, schema.LLMRequestEvent{}},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			want := schemaColumns(tt.schema)
			got := tableColumns(t, s, tt.table)
			if len(got) != len(want) {
				t.Fatalf("columns = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("columns = %v, want %v", got, want)
				}
			}
		})
	}
}
