package appeals

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tryanzu/tribunal/board/actions"
	"github.com/tryanzu/tribunal/board/bans"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/board/reports"
	"github.com/tryanzu/tribunal/core/config"
	"github.com/tryanzu/tribunal/deps"
	"github.com/tryanzu/tribunal/internal/dal"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

var everything = map[string][]string{
	"c1": {acl.PermManagePosts, acl.PermManageComments, acl.PermManageUsers},
}

type fixture struct {
	d         deps.Deps
	mem       *content.Memory
	post      content.Target
	author    *acl.Principal
	reporter  *acl.Principal
	mod       *acl.Principal
	otherMod  *acl.Principal
	admin     *acl.Principal
	bystander *acl.Principal
}

func setup(t *testing.T) fixture {
	d, mem, err := dal.Ephemeral(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	f := fixture{
		d:         d,
		mem:       mem,
		post:      content.Target{Type: content.POST, ID: "p1"},
		author:    d.ACL().Principal("author", acl.RoleMember, nil),
		reporter:  d.ACL().Principal("reporter", acl.RoleMember, nil),
		mod:       d.ACL().Principal("mod1", acl.RoleModerator, everything),
		otherMod:  d.ACL().Principal("mod2", acl.RoleModerator, everything),
		admin:     d.ACL().Principal("admin1", acl.RoleAdmin, nil),
		bystander: d.ACL().Principal("m9", acl.RoleMember, nil),
	}
	mem.Add(f.post, "author")
	return f
}

func (f fixture) remove(by *acl.Principal, t content.Target) actions.Action {
	a, err := actions.Create(f.d, by, actions.Action{CommunityID: "c1", ActionType: actions.REMOVE, Target: t, ReasonCategory: "spam", RemovalType: "spam"})
	So(err, ShouldBeNil)
	return a
}

func (f fixture) appealAction(id string) (Appeal, error) {
	return Create(f.d, f.author, Appeal{SubjectType: ACTION_SUBJECT, SubjectID: id, AppealType: "content_removal", AppealText: "It was not spam"})
}

func (f fixture) visible() bool {
	v, err := f.mem.Visible(f.post)
	So(err, ShouldBeNil)
	return v
}

func TestRemovalAppeal(t *testing.T) {
	Convey("Given a reported post removed by a moderator", t, func() {
		f := setup(t)
		r, err := reports.Create(f.d, f.reporter, reports.Report{Target: f.post, CommunityID: "c1", Categories: []string{"spam"}})
		So(err, ShouldBeNil)
		removal, err := actions.Create(f.d, f.mod, actions.Action{ReportID: r.ID, CommunityID: "c1", ActionType: actions.REMOVE, Target: f.post, ReasonCategory: "spam"})
		So(err, ShouldBeNil)
		So(f.visible(), ShouldBeFalse)

		Convey("The author appeals, gets upheld, escalates and wins at the admin tier", func() {
			a, err := f.appealAction(removal.ID)
			So(err, ShouldBeNil)
			So(a.Status, ShouldEqual, PENDING)
			So(a.ReviewerRole, ShouldEqual, acl.RoleModerator)
			So(a.CommunityID, ShouldEqual, "c1")
			So(a.AppellantID, ShouldEqual, "author")

			a, err = Claim(f.d, f.otherMod, a.ID)
			So(err, ShouldBeNil)
			So(a.Status, ShouldEqual, UNDER_REVIEW)
			So(a.ClaimedBy, ShouldEqual, "mod2")

			a, err = Review(f.d, f.otherMod, a.ID, UPHOLD, "Clear spam")
			So(err, ShouldBeNil)
			So(a.Status, ShouldEqual, UPHELD)
			So(a.ReviewedBy, ShouldEqual, "mod2")
			So(a.Reviewed, ShouldNotBeNil)
			So(f.visible(), ShouldBeFalse)

			a, err = Escalate(f.d, f.author, a.ID)
			So(err, ShouldBeNil)
			So(a.Status, ShouldEqual, UNDER_REVIEW)
			So(a.IsEscalated, ShouldBeTrue)
			So(a.ReviewerRole, ShouldEqual, acl.RoleAdmin)
			So(a.Explanation, ShouldEqual, "Clear spam")
			So(len(a.History), ShouldEqual, 1)
			So(a.History[0].Decision, ShouldEqual, UPHOLD)

			_, err = Review(f.d, f.otherMod, a.ID, OVERTURN, "Changed my mind")
			So(exceptions.IsForbidden(err), ShouldBeTrue)

			a, err = Review(f.d, f.admin, a.ID, OVERTURN, "Satire, not spam")
			So(err, ShouldBeNil)
			So(a.Status, ShouldEqual, OVERTURNED)
			So(a.Explanation, ShouldEqual, "Satire, not spam")
			So(a.Remedied, ShouldBeTrue)
			So(f.visible(), ShouldBeTrue)

			rev, err := actions.FindReversal(f.d, removal.ID)
			So(err, ShouldBeNil)
			So(rev.ActionType, ShouldEqual, actions.APPROVE)
			So(rev.ActorRole, ShouldEqual, acl.RoleAdmin)

			_, err = Escalate(f.d, f.author, a.ID)
			So(exceptions.IsConflict(err), ShouldBeTrue)

			_, err = f.appealAction(removal.ID)
			So(exceptions.IsConflict(err), ShouldBeTrue)

			list, err := FindByAppellant(f.d, "author")
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 1)
		})

		Convey("A duplicate appeal while the first is pending is rejected", func() {
			first, err := f.appealAction(removal.ID)
			So(err, ShouldBeNil)
			_, err = f.appealAction(removal.ID)
			So(exceptions.IsDuplicateAppeal(err), ShouldBeTrue)
			So(exceptions.IsConflict(err), ShouldBeTrue)

			open, err := FindOpenBySubject(f.d, removal.ID)
			So(err, ShouldBeNil)
			So(open.ID, ShouldEqual, first.ID)
		})

		Convey("Only the author may appeal", func() {
			_, err := Create(f.d, f.bystander, Appeal{SubjectType: ACTION_SUBJECT, SubjectID: removal.ID, AppealType: "content_removal", AppealText: "Please"})
			So(exceptions.IsForbidden(err), ShouldBeTrue)
		})

		Convey("Malformed appeals are rejected", func() {
			var tests = []struct {
				appeal Appeal
				check  func(error) bool
			}{
				{Appeal{SubjectType: ACTION_SUBJECT, SubjectID: removal.ID, AppealType: "community_ban", AppealText: "x"}, exceptions.IsValidation},
				{Appeal{SubjectType: ACTION_SUBJECT, SubjectID: removal.ID, AppealType: "content_removal"}, exceptions.IsValidation},
				{Appeal{SubjectType: "report", SubjectID: removal.ID, AppealType: "content_removal", AppealText: "x"}, exceptions.IsValidation},
				{Appeal{SubjectType: ACTION_SUBJECT, SubjectID: "missing", AppealType: "content_removal", AppealText: "x"}, exceptions.IsNotFound},
			}
			for _, test := range tests {
				_, err := Create(f.d, f.author, test.appeal)
				So(test.check(err), ShouldBeTrue)
			}
		})

		Convey("Approvals cannot be appealed", func() {
			approval, err := actions.Create(f.d, f.mod, actions.Action{CommunityID: "c1", ActionType: actions.APPROVE, Target: f.post})
			So(err, ShouldBeNil)
			_, err = f.appealAction(approval.ID)
			So(exceptions.IsConflict(err), ShouldBeTrue)
		})

		Convey("Reviewers cannot decide twice", func() {
			a, err := f.appealAction(removal.ID)
			So(err, ShouldBeNil)
			_, err = Review(f.d, f.mod, a.ID, REDUCE, "Shortened")
			So(err, ShouldBeNil)
			_, err = Review(f.d, f.mod, a.ID, OVERTURN, "Actually fine")
			So(exceptions.IsConflict(err), ShouldBeTrue)
			_, err = Claim(f.d, f.mod, a.ID)
			So(exceptions.IsConflict(err), ShouldBeTrue)
			So(f.visible(), ShouldBeFalse)
		})

		Convey("Reviews need a known decision and an explanation", func() {
			a, err := f.appealAction(removal.ID)
			So(err, ShouldBeNil)
			_, err = Review(f.d, f.mod, a.ID, "pardon", "because")
			So(exceptions.IsValidation(err), ShouldBeTrue)
			_, err = Review(f.d, f.mod, a.ID, OVERTURN, "  ")
			So(exceptions.IsValidation(err), ShouldBeTrue)
			_, err = Review(f.d, f.bystander, a.ID, OVERTURN, "ok")
			So(exceptions.IsForbidden(err), ShouldBeTrue)
			_, err = Review(f.d, f.mod, "missing", OVERTURN, "ok")
			So(exceptions.IsNotFound(err), ShouldBeTrue)
		})

		Convey("A failed restoration keeps the decision and can be applied later", func() {
			a, err := f.appealAction(removal.ID)
			So(err, ShouldBeNil)

			f.mem.SetFailing(true)
			a, err = Review(f.d, f.mod, a.ID, OVERTURN, "Not spam")
			So(exceptions.IsSideEffect(err), ShouldBeTrue)
			So(a.Status, ShouldEqual, OVERTURNED)

			stored, err := FindId(f.d, a.ID)
			So(err, ShouldBeNil)
			So(stored.Status, ShouldEqual, OVERTURNED)
			So(stored.Remedied, ShouldBeFalse)
			So(f.visible(), ShouldBeFalse)

			_, err = Apply(f.d, f.mod, a.ID)
			So(exceptions.IsSideEffect(err), ShouldBeTrue)

			f.mem.SetFailing(false)
			a, err = Apply(f.d, f.mod, a.ID)
			So(err, ShouldBeNil)
			So(a.Remedied, ShouldBeTrue)
			So(a.RemediedAt, ShouldNotBeNil)
			So(f.visible(), ShouldBeTrue)

			again, err := Apply(f.d, f.mod, a.ID)
			So(err, ShouldBeNil)
			So(again.RemediedAt.Equal(*a.RemediedAt), ShouldBeTrue)
		})

		Convey("Only overturned appeals can be applied", func() {
			a, err := f.appealAction(removal.ID)
			So(err, ShouldBeNil)
			_, err = Apply(f.d, f.mod, a.ID)
			So(exceptions.IsConflict(err), ShouldBeTrue)
		})
	})

	Convey("Given a post removed by an admin", t, func() {
		f := setup(t)
		removal := f.remove(f.admin, f.post)

		Convey("The appeal goes straight to the admin tier", func() {
			a, err := f.appealAction(removal.ID)
			So(err, ShouldBeNil)
			So(a.ReviewerRole, ShouldEqual, acl.RoleAdmin)

			_, err = Claim(f.d, f.mod, a.ID)
			So(exceptions.IsForbidden(err), ShouldBeTrue)

			a, err = Review(f.d, f.admin, a.ID, UPHOLD, "Confirmed")
			So(err, ShouldBeNil)
			_, err = Escalate(f.d, f.author, a.ID)
			So(exceptions.IsConflict(err), ShouldBeTrue)
		})
	})
}

func TestBanAppeal(t *testing.T) {
	Convey("Given a member banned for 30 days", t, func() {
		f := setup(t)
		expires := time.Now().Add(30 * 24 * time.Hour)
		ban, err := bans.Issue(f.d, f.mod, bans.Ban{
			CommunityID:    "c1",
			BannedMemberID: "author",
			ReasonCategory: "harassment",
			Expires:        &expires,
		})
		So(err, ShouldBeNil)
		So(bans.IsBanned(f.d, "c1", "author"), ShouldBeTrue)

		appeal := Appeal{SubjectType: BAN_SUBJECT, SubjectID: ban.ID, AppealType: "community_ban", AppealText: "I apologise"}

		Convey("Overturning the appeal lifts the ban early", func() {
			a, err := Create(f.d, f.author, appeal)
			So(err, ShouldBeNil)
			So(a.ReviewerRole, ShouldEqual, acl.RoleModerator)

			a, err = Review(f.d, f.otherMod, a.ID, OVERTURN, "First offence")
			So(err, ShouldBeNil)
			So(a.Remedied, ShouldBeTrue)

			lifted, err := bans.FindId(f.d, ban.ID)
			So(err, ShouldBeNil)
			So(lifted.IsActive, ShouldBeFalse)
			So(lifted.LiftedEarly, ShouldBeTrue)
			So(lifted.LiftedBy, ShouldEqual, "mod2")
			So(bans.IsBanned(f.d, "c1", "author"), ShouldBeFalse)

			_, err = Create(f.d, f.author, appeal)
			So(exceptions.IsConflict(err), ShouldBeTrue)
		})

		Convey("Ban appeals need the ban appeal type", func() {
			bad := appeal
			bad.AppealType = "content_removal"
			_, err := Create(f.d, f.author, bad)
			So(exceptions.IsValidation(err), ShouldBeTrue)
		})

		Convey("Bans lifted meanwhile are remedied without error", func() {
			a, err := Create(f.d, f.author, appeal)
			So(err, ShouldBeNil)
			_, err = bans.Lift(f.d, f.admin, "c1", ban.ID)
			So(err, ShouldBeNil)

			a, err = Review(f.d, f.mod, a.ID, OVERTURN, "Already lifted")
			So(err, ShouldBeNil)
			So(a.Remedied, ShouldBeTrue)

			pardoned, err := bans.FindId(f.d, ban.ID)
			So(err, ShouldBeNil)
			So(pardoned.Pardoned, ShouldBeTrue)
			So(pardoned.LiftedBy, ShouldEqual, "admin1")
		})
	})
}

func TestOverturnedBanForgiven(t *testing.T) {
	Convey("Given a spam reason that caps repeat offenders at one day", t, func() {
		f := setup(t)
		f.d.Rules().BanReasons["spam"] = config.BanReason{
			Description: "Spamming the community",
			Code:        "exports.maxDays = banN == 0 ? 7 : 1;",
		}
		firstOffence := func() bans.Ban {
			expires := time.Now().Add(5 * 24 * time.Hour)
			return bans.Ban{CommunityID: "c1", BannedMemberID: "author", ReasonCategory: "spam", Expires: &expires}
		}
		ban, err := bans.Issue(f.d, f.mod, firstOffence())
		So(err, ShouldBeNil)

		Convey("An overturned ban does not make the member a repeat offender", func() {
			a, err := Create(f.d, f.author, Appeal{SubjectType: BAN_SUBJECT, SubjectID: ban.ID, AppealType: "community_ban", AppealText: "Not spam"})
			So(err, ShouldBeNil)
			a, err = Review(f.d, f.otherMod, a.ID, OVERTURN, "Misread the thread")
			So(err, ShouldBeNil)
			So(a.Remedied, ShouldBeTrue)

			again, err := bans.Issue(f.d, f.mod, firstOffence())
			So(err, ShouldBeNil)
			So(again.IsActive, ShouldBeTrue)
		})

		Convey("A ban lifted without an appeal still counts", func() {
			_, err := bans.Lift(f.d, f.admin, "c1", ban.ID)
			So(err, ShouldBeNil)

			_, err = bans.Issue(f.d, f.mod, firstOffence())
			So(exceptions.IsValidation(err), ShouldBeTrue)
		})
	})
}

func TestEscalate(t *testing.T) {
	var tests = []struct {
		name     string
		decision string
		ok       bool
	}{
		{"upheld by a moderator", UPHOLD, true},
		{"reduced by a moderator", REDUCE, true},
		{"overturned by a moderator", OVERTURN, false},
		{"still pending", "", false},
	}

	Convey("Only moderator upholds and reductions escalate", t, func() {
		for _, test := range tests {
			Convey(test.name, func() {
				f := setup(t)
				removal := f.remove(f.mod, f.post)
				a, err := f.appealAction(removal.ID)
				So(err, ShouldBeNil)
				if test.decision != "" {
					_, err = Review(f.d, f.mod, a.ID, test.decision, "decided")
					So(err, ShouldBeNil)
				}

				_, err = Escalate(f.d, f.bystander, a.ID)
				So(exceptions.IsForbidden(err), ShouldBeTrue)

				escalated, err := Escalate(f.d, f.author, a.ID)
				if !test.ok {
					So(exceptions.IsConflict(err), ShouldBeTrue)
					return
				}
				So(err, ShouldBeNil)
				So(escalated.IsEscalated, ShouldBeTrue)

				_, err = Escalate(f.d, f.author, a.ID)
				So(exceptions.IsConflict(err), ShouldBeTrue)

				_, err = Review(f.d, f.admin, a.ID, UPHOLD, "Final")
				So(err, ShouldBeNil)
				_, err = Escalate(f.d, f.author, a.ID)
				So(exceptions.IsConflict(err), ShouldBeTrue)
			})
		}
	})

	Convey("Escalation is blocked while another appeal is open", t, func() {
		f := setup(t)
		removal := f.remove(f.mod, f.post)
		first, err := f.appealAction(removal.ID)
		So(err, ShouldBeNil)
		_, err = Review(f.d, f.mod, first.ID, UPHOLD, "Spam")
		So(err, ShouldBeNil)

		second, err := f.appealAction(removal.ID)
		So(err, ShouldBeNil)
		So(second.ID, ShouldNotEqual, first.ID)

		_, err = Escalate(f.d, f.author, first.ID)
		So(exceptions.IsDuplicateAppeal(err), ShouldBeTrue)
	})
}

func TestConcurrentReview(t *testing.T) {
	Convey("Two reviewers racing on one appeal", t, func() {
		f := setup(t)
		removal := f.remove(f.mod, f.post)
		a, err := f.appealAction(removal.ID)
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		reviewers := []*acl.Principal{f.mod, f.otherMod}
		decisions := []string{UPHOLD, OVERTURN}
		for i := range reviewers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = Review(f.d, reviewers[i], a.ID, decisions[i], "racing")
			}(i)
		}
		wg.Wait()

		succeeded, conflicts := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case exceptions.IsConflict(err):
				conflicts++
			}
		}
		So(succeeded, ShouldEqual, 1)
		So(conflicts, ShouldEqual, 1)

		stored, err := FindId(f.d, a.ID)
		So(err, ShouldBeNil)
		So(stored.Open(), ShouldBeFalse)
		So(f.visible(), ShouldEqual, stored.Status == OVERTURNED)
	})
}

func TestOneOpenAppeal(t *testing.T) {
	Convey("Random appeal traffic never opens two appeals per subject", t, func() {
		f := setup(t)
		rng := rand.New(rand.NewSource(42))
		subjects := make([]string, 3)
		for i := range subjects {
			target := content.Target{Type: content.POST, ID: "p" + string(rune('a'+i))}
			f.mem.Add(target, "author")
			subjects[i] = f.remove(f.mod, target).ID
		}

		for step := 0; step < 200; step++ {
			subject := subjects[rng.Intn(len(subjects))]
			switch rng.Intn(4) {
			case 0, 1:
				_, err := f.appealAction(subject)
				if err != nil {
					So(exceptions.IsConflict(err), ShouldBeTrue)
				}
			case 2:
				if open, err := FindOpenBySubject(f.d, subject); err == nil {
					decision := []string{UPHOLD, REDUCE, OVERTURN}[rng.Intn(3)]
					reviewer := f.mod
					if open.ReviewerRole == acl.RoleAdmin {
						reviewer = f.admin
					}
					_, err = Review(f.d, reviewer, open.ID, decision, "random")
					So(err, ShouldBeNil)
				}
			case 3:
				list, err := FindByAppellant(f.d, "author")
				So(err, ShouldBeNil)
				if len(list) > 0 {
					_, err := Escalate(f.d, f.author, list[rng.Intn(len(list))].ID)
					if err != nil {
						So(exceptions.IsConflict(err), ShouldBeTrue)
					}
				}
			}

			list, err := FindByAppellant(f.d, "author")
			So(err, ShouldBeNil)
			open := map[string]int{}
			for _, a := range list {
				if a.Open() {
					open[a.SubjectID]++
				}
			}
			for _, n := range open {
				So(n, ShouldBeLessThanOrEqualTo, 1)
			}
		}
	})
}
