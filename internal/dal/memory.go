package dal

import (
	"github.com/op/go-logging"
	lediscfg "github.com/siddontang/ledisdb/config"
	"github.com/siddontang/ledisdb/ledis"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/core/config"
	"github.com/tryanzu/tribunal/deps"
	"github.com/tryanzu/tribunal/modules/acl"
)

// Ephemeral builds a container backed by an in-memory store, a ledis
// instance under dir and the memory content port. Callers Close it.
func Ephemeral(dir string) (deps.Deps, *content.Memory, error) {
	var d deps.Deps
	db, err := common.OpenStore(":memory:")
	if err != nil {
		return d, nil, err
	}
	d.BuntProvider = db

	conf := lediscfg.NewConfigDefault()
	conf.DataDir = dir
	conn, err := ledis.Open(conf)
	if err != nil {
		d.Close()
		return d, nil, err
	}
	d.LedisConnProvider = conn
	d.LedisProvider, err = conn.Select(0)
	if err != nil {
		d.Close()
		return d, nil, err
	}

	module, err := acl.New(acl.DefaultRules)
	if err != nil {
		d.Close()
		return d, nil, err
	}
	mem := content.NewMemory()
	d.ACLProvider = module
	d.ContentProvider = mem
	d.RulesProvider = config.New()
	d.LoggerProvider = logging.MustGetLogger("tribunal")
	return d, mem, nil
}
