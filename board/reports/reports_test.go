package reports

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/deps"
	"github.com/tryanzu/tribunal/internal/dal"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

func setup(t *testing.T) deps.Deps {
	d, _, err := dal.Ephemeral(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestCreate(t *testing.T) {
	post := content.Target{Type: content.POST, ID: "p1"}

	Convey("Given a member reporting content", t, func() {
		d := setup(t)
		member := d.ACL().Principal("m1", "member", nil)
		report := Report{
			Target:      post,
			CommunityID: "c1",
			Categories:  []string{"spam", "spam", " harassment"},
			FreeText:    "<b>buy</b> cheap watches",
		}

		Convey("The report is stored and the target flagged", func() {
			r, err := Create(d, member, report)
			So(err, ShouldBeNil)
			So(r.ID, ShouldNotBeEmpty)
			So(r.ReporterID, ShouldEqual, "m1")
			So(r.Categories, ShouldResemble, []string{"spam", "harassment"})
			So(r.FreeText, ShouldEqual, "buy cheap watches")
			So(HasPending(d, post), ShouldBeTrue)
			So(HasPending(d, content.Target{Type: content.COMMENT, ID: "p1"}), ShouldBeFalse)

			found, err := FindId(d, r.ID)
			So(err, ShouldBeNil)
			So(found.Target, ShouldResemble, post)
			So(TodaysCountByReporter(d, "m1"), ShouldEqual, 1)
		})

		Convey("Many reports may target the same content", func() {
			_, err := Create(d, member, report)
			So(err, ShouldBeNil)
			other := d.ACL().Principal("m2", "member", nil)
			_, err = Create(d, other, report)
			So(err, ShouldBeNil)

			list, err := FindByTarget(d, post)
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 2)
			So(list[0].ReporterID, ShouldEqual, "m1")
		})

		Convey("Malformed reports are rejected", func() {
			var tests = []struct {
				name   string
				modify func(r *Report)
			}{
				{"unknown target type", func(r *Report) { r.Type = "chat" }},
				{"missing target id", func(r *Report) { r.Target.ID = "" }},
				{"missing community", func(r *Report) { r.CommunityID = "" }},
				{"no categories", func(r *Report) { r.Categories = nil }},
				{"unknown category", func(r *Report) { r.Categories = []string{"boring"} }},
				{"free text too long", func(r *Report) {
					text := make([]rune, 256)
					for i := range text {
						text[i] = 'á'
					}
					r.FreeText = string(text)
				}},
			}
			for _, test := range tests {
				r := report
				test.modify(&r)
				_, err := Create(d, member, r)
				So(exceptions.IsValidation(err), ShouldBeTrue)
			}
			So(HasPending(d, post), ShouldBeFalse)
		})

		Convey("The daily limit stops noisy reporters", func() {
			d.Rules().ReportDailyLimit = 2
			for i := 0; i < 2; i++ {
				_, err := Create(d, member, report)
				So(err, ShouldBeNil)
			}
			_, err := Create(d, member, report)
			So(exceptions.IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "reporterId")
			So(TodaysCountByReporter(d, "m1"), ShouldEqual, 2)
		})

		Convey("Concurrent reports never pass the daily limit", func() {
			d.Rules().ReportDailyLimit = 5
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				accepted int
				limited  int
			)
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := Create(d, member, report)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						accepted++
					case exceptions.IsValidation(err):
						limited++
					}
				}()
			}
			wg.Wait()
			So(accepted, ShouldEqual, 5)
			So(limited, ShouldEqual, 15)
			So(TodaysCountByReporter(d, "m1"), ShouldEqual, 5)
		})

		Convey("Unknown reports are not found", func() {
			_, err := FindId(d, "missing")
			So(exceptions.IsNotFound(err), ShouldBeTrue)
		})
	})
}
