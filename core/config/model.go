package config

import (
	"io"
	"sort"

	"github.com/BurntSushi/toml"
)

// Rules drive which categories, reasons and appeal types the moderation
// engine accepts.
type Rules struct {
	ReportDailyLimit int                       `hcl:"report_daily_limit" toml:"report_daily_limit" json:"report_daily_limit"`
	ReportCategories map[string]ReportCategory `hcl:"report_category" toml:"report_category" json:"report_categories"`
	BanReasons       map[string]BanReason      `hcl:"ban_reason" toml:"ban_reason" json:"ban_reasons"`
	AppealTypes      map[string]AppealType     `hcl:"appeal_type" toml:"appeal_type" json:"appeal_types"`
}

// ReportCategory is one entry of the report taxonomy.
type ReportCategory struct {
	Description string `hcl:"description" toml:"description" json:"description"`
}

// AppealType binds an appeal type to the subject it may be filed against.
type AppealType struct {
	Description string `hcl:"description" toml:"description" json:"description"`
	Subject     string `hcl:"subject" toml:"subject" json:"subject"`
}

// Default rules used when no rules file is present.
func Default() *Rules {
	return &Rules{
		ReportDailyLimit: 10,
		ReportCategories: map[string]ReportCategory{
			"spam":           {"Unsolicited advertising or repeated content"},
			"harassment":     {"Targeted abuse of another member"},
			"rule_violation": {"Breaks a community rule"},
			"misinformation": {"Deliberately false information"},
			"other":          {"Anything else, explained in the report text"},
		},
		BanReasons: map[string]BanReason{
			"spam":           {Description: "Spamming the community"},
			"harassment":     {Description: "Harassing other members"},
			"rule_violation": {Description: "Repeated rule violations"},
			"ban_evasion":    {Description: "Evading a previous ban"},
		},
		AppealTypes: map[string]AppealType{
			"content_removal": {"Appeal a removed post or comment", "moderation_action"},
			"community_ban":   {"Appeal a community ban", "community_ban"},
		},
	}
}

// IsReportCategory reports whether code belongs to the taxonomy.
func (r *Rules) IsReportCategory(code string) bool {
	_, exists := r.ReportCategories[code]
	return exists
}

// BanReason looks up a configured ban reason.
func (r *Rules) BanReason(code string) (BanReason, bool) {
	reason, exists := r.BanReasons[code]
	return reason, exists
}

// AppealType looks up a configured appeal type.
func (r *Rules) AppealType(code string) (AppealType, bool) {
	t, exists := r.AppealTypes[code]
	return t, exists
}

// Keys of a rules map, sorted.
func Keys(m interface{}) []string {
	list := []string{}
	switch m := m.(type) {
	case map[string]ReportCategory:
		for k := range m {
			list = append(list, k)
		}
	case map[string]BanReason:
		for k := range m {
			list = append(list, k)
		}
	case map[string]AppealType:
		for k := range m {
			list = append(list, k)
		}
	}
	sort.Strings(list)
	return list
}

// WriteTOML encodes the effective rules.
func (r *Rules) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(r)
}

// merge overlays other on top of r.
func (r *Rules) merge(other *Rules) {
	if other.ReportDailyLimit != 0 {
		r.ReportDailyLimit = other.ReportDailyLimit
	}
	for k, v := range other.ReportCategories {
		r.ReportCategories[k] = v
	}
	for k, v := range other.BanReasons {
		r.BanReasons[k] = v
	}
	for k, v := range other.AppealTypes {
		r.AppealTypes[k] = v
	}
}
