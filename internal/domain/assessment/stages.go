package assessment

// Step is one position in a wizard's ordered sequence. Plain stages validate
// the section named after the stage; the RoPA infovoyage stage is subdivided
// into tabs, each validating its own section.
type Step struct {
	Stage   string
	Tab     string
	Section string
}

var dpiaSteps = []Step{
	{Stage: "projectOverview", Section: "projectOverview"},
	{Stage: "necessityProportionality", Section: "necessityProportionality"},
	{Stage: "riskAssessment", Section: "riskAssessment"},
	{Stage: "mitigationMeasures", Section: "mitigationMeasures"},
	{Stage: "signoff", Section: "signoff"},
}

var liaSteps = []Step{
	{Stage: "purposeTest", Section: "purposeTest"},
	{Stage: "necessityTest", Section: "necessityTest"},
	{Stage: "balancingTest", Section: "balancingTest"},
	{Stage: "safeguards", Section: "safeguards"},
	{Stage: "decision", Section: "decision"},
}

var tiaSteps = []Step{
	{Stage: "transferDetails", Section: "transferDetails"},
	{Stage: "legalMechanism", Section: "legalMechanism"},
	{Stage: "localLawAssessment", Section: "localLawAssessment"},
	{Stage: "supplementaryMeasures", Section: "supplementaryMeasures"},
	{Stage: "conclusion", Section: "conclusion"},
}

var ropaSteps = []Step{
	{Stage: "infovoyage", Tab: "generalInfo", Section: "generalInfo"},
	{Stage: "infovoyage", Tab: "dataSubjects", Section: "dataSubjects"},
	{Stage: "infovoyage", Tab: "dataCategories", Section: "dataCategories"},
	{Stage: "infovoyage", Tab: "processGrid", Section: "processGrid"},
	{Stage: "checksync", Section: "checksync"},
	{Stage: "beam", Section: "beam"},
	{Stage: "offdoff", Section: "offdoff"},
}

// Steps returns the ordered step sequence for an assessment type.
func Steps(t Type) []Step {
	switch t {
	case TypeDPIA:
		return dpiaSteps
	case TypeLIA:
		return liaSteps
	case TypeTIA:
		return tiaSteps
	case TypeRoPA:
		return ropaSteps
	}
	return nil
}
