package config

import (
	"time"

	"github.com/dop251/goja"
)

// BanReason config def.
type BanReason struct {
	Description string `hcl:"description" toml:"description" json:"description"`
	Code        string `hcl:"effects" toml:"effects" json:"-"`
}

// BanEffects def. A zero MaxDuration means no cap.
type BanEffects struct {
	MaxDuration    time.Duration
	AllowPermanent bool
}

// Effects runs the reason's script with banN set to the number of bans
// the member already received in the community. Scripts export maxDays
// and permanent.
func (re BanReason) Effects(times int) (BanEffects, error) {
	effects := BanEffects{0, true}
	if len(re.Code) == 0 {
		return effects, nil
	}
	vm := goja.New()
	if _, err := vm.RunString(`var exports = {};`); err != nil {
		return effects, err
	}
	vm.Set("banN", times)
	if _, err := vm.RunString(re.Code); err != nil {
		return BanEffects{}, err
	}
	obj := vm.Get("exports").ToObject(vm)
	if v := obj.Get("maxDays"); defined(v) {
		effects.MaxDuration = time.Duration(v.ToInteger()) * 24 * time.Hour
	}
	if v := obj.Get("permanent"); defined(v) {
		effects.AllowPermanent = v.ToBoolean()
	}
	return effects, nil
}

func defined(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}
