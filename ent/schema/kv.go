package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// KV holds single JSON documents under well-known keys, such as the
// lifetime stats.
type KV struct {
	ent.Schema
}

func (KV) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			Unique().
			NotEmpty(),
		field.Text("value"),
		field.Int64("updated_at").
			Comment("Unix milliseconds of the last write"),
	}
}
