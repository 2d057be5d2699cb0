package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("   "))
	assert.True(t, IsMissing([]string{}))
	assert.True(t, IsMissing([]any{}))
	assert.False(t, IsMissing("No"))
	assert.False(t, IsMissing([]string{"a"}))
	assert.False(t, IsMissing([]any{"a"}))
}

func TestValidateSectionReportsEveryMissingField(t *testing.T) {
	schema, ok := SchemaFor(TypeDPIA, "projectOverview")
	if !ok {
		t.Fatal("expected projectOverview schema")
	}

	errs := ValidateSection(schema, map[string]any{"projectName": "x"})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "projectOverview.naturePurpose")
	assert.Contains(t, errs, "projectOverview.sensitiveDataInvolved")
}

func TestValidateSectionLenMatch(t *testing.T) {
	schema, ok := SchemaFor(TypeRoPA, "processGrid")
	if !ok {
		t.Fatal("expected processGrid schema")
	}

	errs := ValidateSection(schema, map[string]any{
		"physicalApplications":   []any{"Mainframe"},
		"physicalApplicationIds": []any{"app-1", "app-2"},
		"virtualApplications":    []any{"CRM"},
		"virtualApplicationIds":  []any{"vapp-1"},
	})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "processGrid.physicalApplications")
}

func TestEveryStepHasSchema(t *testing.T) {
	for _, typ := range []Type{TypeDPIA, TypeLIA, TypeTIA, TypeRoPA} {
		for _, step := range Steps(typ) {
			_, ok := SchemaFor(typ, step.Section)
			assert.True(t, ok, "%s/%s", typ, step.Section)
		}
	}
}
