package config

import (
	"bytes"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const hclRules = `
report_daily_limit = 3

report_category "doxxing" {
	description = "Sharing private information"
}

ban_reason "spam" {
	description = "Spamming the community"
	effects = "exports.maxDays = banN == 0 ? 7 : 30; exports.permanent = banN >= 2;"
}

appeal_type "ban" {
	description = "Short form for ban appeals"
	subject = "community_ban"
}
`

const tomlRules = `
report_daily_limit = 5

[report_category.doxxing]
description = "Sharing private information"
`

func TestParse(t *testing.T) {
	Convey("HCL rules merge over the defaults", t, func() {
		rules, err := Parse(".hcl", []byte(hclRules))
		So(err, ShouldBeNil)
		So(rules.ReportDailyLimit, ShouldEqual, 3)
		So(rules.IsReportCategory("doxxing"), ShouldBeTrue)
		So(rules.IsReportCategory("spam"), ShouldBeTrue)

		kind, exists := rules.AppealType("ban")
		So(exists, ShouldBeTrue)
		So(kind.Subject, ShouldEqual, "community_ban")
		_, exists = rules.AppealType("content_removal")
		So(exists, ShouldBeTrue)
	})

	Convey("TOML rules merge over the defaults", t, func() {
		rules, err := Parse(".toml", []byte(tomlRules))
		So(err, ShouldBeNil)
		So(rules.ReportDailyLimit, ShouldEqual, 5)
		So(Keys(rules.ReportCategories), ShouldResemble, []string{"doxxing", "harassment", "misinformation", "other", "rule_violation", "spam"})
	})

	Convey("Broken rules are rejected", t, func() {
		_, err := Parse(".hcl", []byte(`report_category "x" {`))
		So(err, ShouldNotBeNil)
	})

	Convey("Effective rules can be written back as TOML", t, func() {
		var buf bytes.Buffer
		So(Default().WriteTOML(&buf), ShouldBeNil)
		rules, err := Parse(".toml", buf.Bytes())
		So(err, ShouldBeNil)
		So(Keys(rules.BanReasons), ShouldResemble, Keys(Default().BanReasons))
	})
}

func TestBanEffects(t *testing.T) {
	rules, err := Parse(".hcl", []byte(hclRules))
	if err != nil {
		t.Fatal(err)
	}
	reason, _ := rules.BanReason("spam")

	var tests = []struct {
		times     int
		max       time.Duration
		permanent bool
	}{
		{0, 7 * 24 * time.Hour, false},
		{1, 30 * 24 * time.Hour, false},
		{2, 30 * 24 * time.Hour, true},
	}

	Convey("Ban reason scripts escalate with prior bans", t, func() {
		for _, test := range tests {
			effects, err := reason.Effects(test.times)
			So(err, ShouldBeNil)
			So(effects.MaxDuration, ShouldEqual, test.max)
			So(effects.AllowPermanent, ShouldEqual, test.permanent)
		}
	})

	Convey("Reasons without script impose nothing", t, func() {
		effects, err := BanReason{}.Effects(4)
		So(err, ShouldBeNil)
		So(effects.MaxDuration, ShouldEqual, time.Duration(0))
		So(effects.AllowPermanent, ShouldBeTrue)
	})

	Convey("Script errors surface", t, func() {
		_, err := BanReason{Code: "exports.maxDays = ;"}.Effects(0)
		So(err, ShouldNotBeNil)
	})
}
