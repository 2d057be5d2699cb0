package assessment

// SectionSchema declares what a wizard section requires before the user may
// advance past it. Required lists field names that must be non-empty; Checks
// carry structural invariants beyond simple presence.
type SectionSchema struct {
	Section  string
	Required []string
	Checks   []LenMatch
}

// LenMatch requires two list-valued fields to have the same length. The
// violation is reported against the Report field.
type LenMatch struct {
	A      string
	B      string
	Report string
	Reason string
}

var sectionSchemas = map[Type]map[string]SectionSchema{
	TypeDPIA: {
		"projectOverview": {
			Section:  "projectOverview",
			Required: []string{"projectName", "naturePurpose", "sensitiveDataInvolved"},
		},
		"necessityProportionality": {
			Section:  "necessityProportionality",
			Required: []string{"legalBasis", "dataMinimization", "retentionJustification"},
		},
		"riskAssessment": {
			Section:  "riskAssessment",
			Required: []string{"identifiedRisks", "likelihood", "severity"},
		},
		"mitigationMeasures": {
			Section:  "mitigationMeasures",
			Required: []string{"measures", "residualRisk"},
		},
		"signoff": {
			Section:  "signoff",
			Required: []string{"reviewer", "outcome"},
		},
	},
	TypeLIA: {
		"purposeTest": {
			Section:  "purposeTest",
			Required: []string{"processingPurpose", "intendedBenefit"},
		},
		"necessityTest": {
			Section:  "necessityTest",
			Required: []string{"necessityJustification", "alternativesConsidered"},
		},
		"balancingTest": {
			Section:  "balancingTest",
			Required: []string{"individualImpact", "reasonableExpectations"},
		},
		"safeguards": {
			Section:  "safeguards",
			Required: []string{"appliedSafeguards"},
		},
		"decision": {
			Section:  "decision",
			Required: []string{"outcome", "reviewer"},
		},
	},
	TypeTIA: {
		"transferDetails": {
			Section:  "transferDetails",
			Required: []string{"dataImporter", "destinationCountry", "dataCategories"},
		},
		"legalMechanism": {
			Section:  "legalMechanism",
			Required: []string{"transferMechanism"},
		},
		"localLawAssessment": {
			Section:  "localLawAssessment",
			Required: []string{"lawsReviewed", "surveillanceRisk"},
		},
		"supplementaryMeasures": {
			Section:  "supplementaryMeasures",
			Required: []string{"measures"},
		},
		"conclusion": {
			Section:  "conclusion",
			Required: []string{"decision", "reviewer"},
		},
	},
	TypeRoPA: {
		"generalInfo": {
			Section:  "generalInfo",
			Required: []string{"processName", "department", "processOwner"},
		},
		"dataSubjects": {
			Section:  "dataSubjects",
			Required: []string{"subjectCategories"},
		},
		"dataCategories": {
			Section:  "dataCategories",
			Required: []string{"personalDataCategories"},
		},
		"processGrid": {
			Section:  "processGrid",
			Required: []string{"physicalApplications", "virtualApplications"},
			Checks: []LenMatch{
				{
					A:      "physicalApplications",
					B:      "physicalApplicationIds",
					Report: "physicalApplications",
					Reason: "physical asset names and ids must match one to one",
				},
				{
					A:      "virtualApplications",
					B:      "virtualApplicationIds",
					Report: "virtualApplications",
					Reason: "virtual asset names and ids must match one to one",
				},
			},
		},
		"checksync": {
			Section:  "checksync",
			Required: []string{"lawfulBasis", "processingPurpose"},
		},
		"beam": {
			Section:  "beam",
			Required: []string{"recipients"},
		},
		"offdoff": {
			Section:  "offdoff",
			Required: []string{"retentionPeriod", "securityMeasures"},
		},
	},
}

// SchemaFor returns the declarative schema for one section of an assessment
// type. Sections without a schema validate as empty.
func SchemaFor(t Type, section string) (SectionSchema, bool) {
	schemas, ok := sectionSchemas[t]
	if !ok {
		return SectionSchema{}, false
	}
	schema, ok := schemas[section]
	return schema, ok
}
