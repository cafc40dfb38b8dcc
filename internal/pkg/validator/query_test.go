package validator

import (
	"errors"
	"testing"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/stretchr/testify/require"
)

func testValidator() *Validator {
	return NewQueryValidator(config.EngineConfig{MaxPartCount: 12})
}

func TestValidateQueryAcceptsMinimalRequest(t *testing.T) {
	err := testValidator().ValidateQuery(&entity.QueryRequest{Question: "What changed?"})
	require.NoError(t, err)
}

func TestValidateQueryRejectsEmptyQuestion(t *testing.T) {
	err := testValidator().ValidateQuery(&entity.QueryRequest{Question: "  \n "})
	require.True(t, errors.Is(err, entity.ErrMissingField))
}

func TestValidateQueryRejectsTooManyParts(t *testing.T) {
	err := testValidator().ValidateQuery(&entity.QueryRequest{Question: "q", Parts: 13})
	require.True(t, errors.Is(err, entity.ErrInvalidParameter))
}

func TestValidateQueryRejectsNegativeValues(t *testing.T) {
	v := testValidator()

	for _, req := range []*entity.QueryRequest{
		{Question: "q", TokensPerPart: -1},
		{Question: "q", MaxSources: -1},
		{Question: "q", RetrievalSize: -1},
	} {
		err := v.ValidateQuery(req)
		require.True(t, errors.Is(err, entity.ErrInvalidParameter))
	}
}
