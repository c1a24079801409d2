package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one scored submission.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Session the answer belongs to"),
		field.Enum("mode").
			Values("draw-plot", "pick-plot", "pick-eq", "type-eq"),
		field.String("question").
			NotEmpty().
			Comment("Canonical text of the asked parabola"),
		field.String("answer").
			Default("").
			Comment("Printable form of what was submitted"),
		field.Bool("correct"),
		field.Int("points").
			NonNegative(),
		field.Int64("duration_ms").
			Comment("Milliseconds from presentation to submission"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
