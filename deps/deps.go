package deps

import (
	"github.com/go-redis/redis/v8"
	"github.com/olebedev/config"
	"github.com/op/go-logging"
	"github.com/siddontang/ledisdb/ledis"
	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/board/content"
	rules "github.com/tryanzu/tribunal/core/config"
	"github.com/tryanzu/tribunal/modules/acl"
	"gopkg.in/mgo.v2"
)

type Deps struct {
	ConfigProvider          *config.Config
	RulesProvider           *rules.Config
	DatabaseSessionProvider *mgo.Session
	DatabaseProvider        *mgo.Database
	LoggerProvider          *logging.Logger
	LedisConnProvider       *ledis.Ledis
	LedisProvider           *ledis.DB
	BuntProvider            *buntdb.DB
	RedisProvider           *redis.Client
	ContentProvider         content.Port
	ACLProvider             *acl.Module
}

func (d Deps) Config() *config.Config {
	return d.ConfigProvider
}

// Rules currently in effect.
func (d Deps) Rules() *rules.Rules {
	if d.RulesProvider == nil {
		return rules.Default()
	}
	return d.RulesProvider.Rules()
}

func (d Deps) Log() *logging.Logger {
	return d.LoggerProvider
}

func (d Deps) Mgo() *mgo.Database {
	return d.DatabaseProvider
}

func (d Deps) MgoSession() *mgo.Session {
	return d.DatabaseSessionProvider
}

func (d Deps) LedisDB() *ledis.DB {
	return d.LedisProvider
}

func (d Deps) BuntDB() *buntdb.DB {
	return d.BuntProvider
}

func (d Deps) Redis() *redis.Client {
	return d.RedisProvider
}

func (d Deps) Content() content.Port {
	return d.ContentProvider
}

func (d Deps) ACL() *acl.Module {
	return d.ACLProvider
}

// Close every opened provider.
func (d Deps) Close() {
	if d.BuntProvider != nil {
		if err := d.BuntProvider.Close(); err != nil {
			log.Error(err)
		}
	}
	if d.LedisConnProvider != nil {
		d.LedisConnProvider.Close()
	}
	if d.DatabaseSessionProvider != nil {
		d.DatabaseSessionProvider.Close()
	}
	if d.RedisProvider != nil {
		d.RedisProvider.Close()
	}
}
