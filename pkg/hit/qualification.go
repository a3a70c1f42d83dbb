package hit

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mturk/types"
)

// System qualification type IDs maintained by the marketplace.
const (
	PercentAssignmentsApprovedTypeID = "000000000000000000L0"
	NumberHITsApprovedTypeID         = "00000000000000000040"
	LocaleTypeID                     = "00000000000000000071"
)

// Qualification is a predicate a worker must satisfy to accept the HIT.
// Exactly one of Value or Country is meaningful, depending on the type.
type Qualification struct {
	TypeID     string
	Comparator types.Comparator
	Value      int32
	Country    string
}

// PercentAssignmentsApproved requires the worker's lifetime approval rate to
// compare against percent.
func PercentAssignmentsApproved(cmp types.Comparator, percent int32) Qualification {
	return Qualification{TypeID: PercentAssignmentsApprovedTypeID, Comparator: cmp, Value: percent}
}

// NumberHITsApproved requires the worker's count of approved HITs to compare
// against n.
func NumberHITsApproved(cmp types.Comparator, n int32) Qualification {
	return Qualification{TypeID: NumberHITsApprovedTypeID, Comparator: cmp, Value: n}
}

// Locale restricts workers by ISO 3166 country code.
func Locale(cmp types.Comparator, country string) Qualification {
	return Qualification{TypeID: LocaleTypeID, Comparator: cmp, Country: country}
}

// Requirement converts q into the wire representation.
func (q Qualification) Requirement() types.QualificationRequirement {
	req := types.QualificationRequirement{
		QualificationTypeId: aws.String(q.TypeID),
		Comparator:          q.Comparator,
	}
	if q.TypeID == LocaleTypeID {
		req.LocaleValues = []types.Locale{{Country: aws.String(q.Country)}}
	} else {
		req.IntegerValues = []int32{q.Value}
	}
	return req
}
