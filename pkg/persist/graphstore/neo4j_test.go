package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/domainlens/domainlens/pkg/model"
)

func TestSanitizeRelationLabel_KnownTypesPassThrough(t *testing.T) {
	for _, rt := range []model.RelationType{model.RelCalls, model.RelDependsOn, model.RelModifies, model.RelUses} {
		assert.Equal(t, string(rt), sanitizeRelationLabel(rt))
	}
}

func TestSanitizeRelationLabel_UnknownTypeFallsBack(t *testing.T) {
	assert.Equal(t, "RELATED_TO", sanitizeRelationLabel(model.RelationType("SOMETHING_NEW")))
}
