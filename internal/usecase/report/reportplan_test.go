package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportPlannerDefaultOutline(t *testing.T) {
	planner := NewReportPlanner(testEngineConfig())

	plan := planner.Plan("Compare vendor A and vendor B", 0, 0)

	require.Equal(t, 7, plan.PartCount)
	require.Len(t, plan.Parts, 7)
	require.Equal(t, "Introduction", plan.Parts[0].Title)
	require.Equal(t, "Conclusions", plan.Parts[len(plan.Parts)-1].Title)
	require.Equal(t, 800, plan.TokensPerPart)

	for i, part := range plan.Parts {
		require.Equal(t, i+1, part.Index)
		require.Equal(t, 800, part.TokenTarget)
		require.NotEmpty(t, part.Keywords)
	}
}

func TestReportPlannerDetectsNumberedStructure(t *testing.T) {
	planner := NewReportPlanner(testEngineConfig())

	request := "Write a report on the migration:\n" +
		"1. Cost analysis\n" +
		"2. Performance under load\n" +
		"3. Final conclusion\n"

	plan := planner.Plan(request, 0, 0)

	// Detected titles plus a prepended introduction; "Final conclusion"
	// already satisfies the closing section.
	require.Equal(t, 4, plan.PartCount)
	require.Equal(t, "Introduction", plan.Parts[0].Title)
	require.Equal(t, "Cost analysis", plan.Parts[1].Title)
	require.Equal(t, "Performance under load", plan.Parts[2].Title)
	require.Equal(t, "Final conclusion", plan.Parts[3].Title)
}

func TestReportPlannerDetectsBulletedStructure(t *testing.T) {
	planner := NewReportPlanner(testEngineConfig())

	request := "Cover these topics:\n- Security\n- Pricing\n- Support\n"

	plan := planner.Plan(request, 0, 0)

	require.Equal(t, 5, plan.PartCount)
	require.Equal(t, "Security", plan.Parts[1].Title)
	require.Equal(t, "Pricing", plan.Parts[2].Title)
	require.Equal(t, "Support", plan.Parts[3].Title)
}

func TestReportPlannerTooFewItemizedLinesFallsBack(t *testing.T) {
	planner := NewReportPlanner(testEngineConfig())

	plan := planner.Plan("Only two items:\n1. First\n2. Second\n", 0, 0)

	// Two itemized lines are not enough to count as explicit structure.
	require.Equal(t, 7, plan.PartCount)
	require.Equal(t, "Introduction", plan.Parts[0].Title)
}

func TestReportPlannerTruncatesToRequestedParts(t *testing.T) {
	planner := NewReportPlanner(testEngineConfig())

	request := "1. Alpha\n2. Beta\n3. Gamma\n4. Delta\n"

	plan := planner.Plan(request, 2, 500)

	require.Equal(t, 4, plan.PartCount)
	require.Equal(t, "Introduction", plan.Parts[0].Title)
	require.Equal(t, "Alpha", plan.Parts[1].Title)
	require.Equal(t, "Beta", plan.Parts[2].Title)
	require.Equal(t, "Conclusions", plan.Parts[3].Title)
	require.Equal(t, 500, plan.TokensPerPart)
}

func TestReportPlannerIndicesContiguous(t *testing.T) {
	planner := NewReportPlanner(testEngineConfig())

	plan := planner.Plan("Explain the architecture", 3, 0)

	for i, part := range plan.Parts {
		require.Equal(t, i+1, part.Index)
	}
}
