package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendLineage(t *testing.T) {
	t.Run("appends breadcrumb to empty lineage", func(t *testing.T) {
		lineage := ExtendLineage(nil, "S1", "Eng", KindSpace)

		require.Len(t, lineage, 1)
		assert.Equal(t, Breadcrumb{ID: "S1", Name: "Eng", Kind: KindSpace}, lineage[0])
	})

	t.Run("appends breadcrumb to existing lineage", func(t *testing.T) {
		parent := []Breadcrumb{{ID: "S1", Name: "Eng", Kind: KindSpace}}

		lineage := ExtendLineage(parent, "P1", "Design", KindPage)

		require.Len(t, lineage, 2)
		assert.Equal(t, "S1", lineage[0].ID)
		assert.Equal(t, Breadcrumb{ID: "P1", Name: "Design", Kind: KindPage}, lineage[1])
	})

	t.Run("does not mutate parent lineage", func(t *testing.T) {
		parent := []Breadcrumb{{ID: "S1", Name: "Eng", Kind: KindSpace}}

		first := ExtendLineage(parent, "P1", "Design", KindPage)
		second := ExtendLineage(parent, "P2", "Roadmap", KindPage)

		require.Len(t, parent, 1)
		assert.Equal(t, "P1", first[1].ID)
		assert.Equal(t, "P2", second[1].ID)
	})

	t.Run("empty name stays empty", func(t *testing.T) {
		lineage := ExtendLineage(nil, "S1", "", KindSpace)

		assert.Equal(t, "", lineage[0].Name)
	})

	t.Run("is deterministic", func(t *testing.T) {
		parent := []Breadcrumb{{ID: "S1", Name: "Eng", Kind: KindSpace}}

		first := ExtendLineage(parent, "P1", "Design", KindPage)
		second := ExtendLineage(parent, "P1", "Design", KindPage)

		assert.Equal(t, first, second)
	})
}

func TestRecord_ParentID(t *testing.T) {
	t.Run("empty lineage has no parent", func(t *testing.T) {
		rec := Record{ID: "S1", Kind: KindSpace}

		assert.Equal(t, "", rec.ParentID())
	})

	t.Run("parent is the last breadcrumb", func(t *testing.T) {
		rec := Record{
			ID:   "C1",
			Kind: KindComment,
			Lineage: []Breadcrumb{
				{ID: "S1", Name: "Eng", Kind: KindSpace},
				{ID: "P1", Name: "Design", Kind: KindPage},
			},
		}

		assert.Equal(t, "P1", rec.ParentID())
	})
}

func TestSource_DisplayName(t *testing.T) {
	t.Run("appends account identifier", func(t *testing.T) {
		source := Source{Name: "Team Wiki"}

		assert.Equal(t, "Team Wiki - ops@example.com", source.DisplayName("ops@example.com"))
	})

	t.Run("skips identifier already present", func(t *testing.T) {
		source := Source{Name: "Team Wiki (ops@example.com)"}

		assert.Equal(t, "Team Wiki (ops@example.com)", source.DisplayName("ops@example.com"))
	})

	t.Run("empty identifier returns name unchanged", func(t *testing.T) {
		source := Source{Name: "Team Wiki"}

		assert.Equal(t, "Team Wiki", source.DisplayName(""))
	})
}
