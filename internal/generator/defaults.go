package generator

import (
	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/social"
)

// fallbackNames is used when no locale name data was configured.
type fallbackNames struct {
	rng entropy.Source
}

func (f fallbackNames) Name(sex actors.Sex, _ string) string {
	firsts := maleNames
	if sex == actors.SexFemale {
		firsts = femaleNames
	}
	return entropy.Pick(f.rng, firsts) + " " + entropy.Pick(f.rng, lastNames)
}

// Generic name pools.
var maleNames = []string{
	"James", "Robert", "Michael", "David", "Daniel", "Thomas", "Mark",
	"Paul", "Steven", "Andrew", "Kevin", "Brian", "George", "Edward",
	"Ronald", "Anthony", "Jason", "Samuel", "Walter", "Henry", "Arthur",
}

var femaleNames = []string{
	"Mary", "Patricia", "Jennifer", "Linda", "Elizabeth", "Susan", "Karen",
	"Nancy", "Margaret", "Sandra", "Ashley", "Donna", "Carol", "Michelle",
	"Amanda", "Melissa", "Rebecca", "Laura", "Helen", "Ruth", "Diane",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Miller", "Davis",
	"Wilson", "Anderson", "Taylor", "Thomas", "Moore", "Martin", "Jackson",
	"Thompson", "White", "Harris", "Clark", "Lewis", "Walker", "Hall",
	"Allen", "Young", "King", "Wright", "Hill", "Green", "Baker", "Carter",
}

var defaultEducations = []string{
	"High School Diploma", "Bachelor of Arts", "Bachelor of Science",
	"Master of Public Administration", "Juris Doctor", "MBA", "PhD",
}

var defaultCareers = []string{
	"Attorney", "Teacher", "Business Owner", "Physician", "Farmer",
	"Union Organizer", "Military Officer", "Journalist", "Engineer",
	"Police Officer", "Nonprofit Director", "Real Estate Developer",
}

var defaultHometowns = []string{
	"Springfield", "Riverton", "Fairview", "Georgetown", "Franklin",
	"Clinton", "Greenville", "Madison", "Salem", "Oakland", "Bristol",
}

var defaultStaffRoles = []string{
	"Chief of Staff", "Campaign Manager", "Press Secretary",
	"Fundraising Director", "Policy Advisor", "Field Organizer",
}

var defaultCommsRoles = []string{
	"Communications Director", "Press Secretary", "Speechwriter",
	"Digital Director", "Spokesperson",
}

var defaultMerchandise = []string{
	"T-Shirt", "Lawn Sign", "Bumper Sticker", "Coffee Mug", "Cap", "Tote Bag",
}

var defaultPartyColors = []string{
	"#1f77b4", "#d62728", "#2ca02c", "#ff7f0e", "#9467bd", "#8c564b",
	"#e377c2", "#17becf", "#bcbd22",
}

// Used when no committee templates were configured.
var defaultCommittees = []social.CommitteeTemplate{
	{ID: "finance", Name: "Finance Committee", FocusArea: "finance", Importance: 9, BaseBudget: 120000},
	{ID: "policy", Name: "Policy Committee", FocusArea: "policy", Importance: 8, BaseBudget: 90000},
	{ID: "campaign", Name: "Campaign Committee", FocusArea: "elections", Importance: 9, BaseBudget: 150000},
	{ID: "outreach", Name: "Outreach Committee", FocusArea: "membership", Importance: 6, BaseBudget: 60000},
	{ID: "ethics", Name: "Ethics Committee", FocusArea: "discipline", Importance: 5, BaseBudget: 30000},
	{ID: "youth", Name: "Youth Wing", FocusArea: "youth", Importance: 4, BaseBudget: 40000},
	{ID: "platform", Name: "Platform Committee", FocusArea: "platform", Importance: 7, BaseBudget: 50000},
}
