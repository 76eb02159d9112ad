package deps

import (
	lediscfg "github.com/siddontang/ledisdb/config"
	"github.com/siddontang/ledisdb/ledis"
)

func IgniteLedisDB(container Deps) (Deps, error) {
	conf := lediscfg.NewConfigDefault()
	conf.DataDir = container.Config().UString("ledis.path", "./ledis")
	conn, err := ledis.Open(conf)
	if err != nil {
		return container, err
	}

	db, err := conn.Select(0)
	if err != nil {
		conn.Close()
		return container, err
	}

	container.LedisConnProvider = conn
	container.LedisProvider = db
	return container, nil
}
