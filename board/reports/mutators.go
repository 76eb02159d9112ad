package reports

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kennygrant/sanitize"
	"github.com/op/go-logging"
	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/core/events"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

var log = logging.MustGetLogger("reports")

// Create validates and stores a new report, flagging its target as pending.
func Create(d Deps, p *acl.Principal, r Report) (Report, error) {
	if err := p.Require(acl.PermReport, r.CommunityID); err != nil {
		return r, err
	}
	if err := r.Target.Validate(); err != nil {
		return r, err
	}
	if r.CommunityID == "" {
		return r, exceptions.Invalid("communityId", "required")
	}

	categories, err := normalizeCategories(d, r.Categories)
	if err != nil {
		return r, err
	}
	text := strings.TrimSpace(sanitize.HTML(r.FreeText))
	if utf8.RuneCountInString(text) > maxFreeText {
		return r, exceptions.Invalid("freeText", "at most %d characters", maxFreeText)
	}
	limit := d.Rules().ReportDailyLimit
	n, counted := countReport(d, p.ID)
	if limit > 0 && n > int64(limit) {
		uncountReport(d, p.ID)
		return r, exceptions.Invalid("reporterId", "daily report limit of %d reached", limit)
	}

	r.ID = common.NewID()
	r.ReporterID = p.ID
	r.Categories = categories
	r.FreeText = text
	r.Created = common.Now()
	err = d.BuntDB().Update(func(tx *buntdb.Tx) error {
		if err := common.Put(tx, key(r.ID), r); err != nil {
			return err
		}
		_, _, err := tx.Set(pendingKey(r.Target), r.ID, nil)
		return err
	})
	if err != nil {
		if counted {
			uncountReport(d, p.ID)
		}
		return r, err
	}

	log.Debugf("report %s filed against %s by %s", r.ID, r.Target, p.ID)
	events.Emit(events.NewReport(r.ID, events.UserSign{UserID: p.ID, Role: p.Role, Reason: strings.Join(categories, ",")}))
	return r, nil
}

// ClearPendingTx drops the pending-report flag of t.
func ClearPendingTx(tx *buntdb.Tx, t content.Target) error {
	_, err := tx.Delete(pendingKey(t))
	if err == buntdb.ErrNotFound {
		return nil
	}
	return err
}

func normalizeCategories(d Deps, list []string) ([]string, error) {
	if len(list) == 0 {
		return nil, exceptions.Invalid("categories", "at least one category is required")
	}
	rules := d.Rules()
	seen := map[string]bool{}
	out := make([]string, 0, len(list))
	for _, c := range list {
		c = strings.TrimSpace(c)
		if !rules.IsReportCategory(c) {
			return nil, exceptions.Invalid("categories", "unknown category %q", c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

// countReport takes one of the reporter's daily slots. The returned count
// includes it; counted is false when ledis is unavailable.
func countReport(d Deps, id string) (n int64, counted bool) {
	k := dailyKey(id, time.Now())
	n, err := d.LedisDB().Incr(k)
	if err != nil {
		log.Error(err)
		return 0, false
	}
	if n == 1 {
		if _, err := d.LedisDB().Expire(k, int64(24*time.Hour/time.Second)); err != nil {
			log.Error(err)
		}
	}
	return n, true
}

// uncountReport gives back a slot taken by countReport.
func uncountReport(d Deps, id string) {
	if _, err := d.LedisDB().Decr(dailyKey(id, time.Now())); err != nil {
		log.Error(err)
	}
}
