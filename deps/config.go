package deps

import (
	"os"
	"path/filepath"

	"github.com/olebedev/config"
	"github.com/subosito/gotenv"
	rules "github.com/tryanzu/tribunal/core/config"
	"github.com/tryanzu/tribunal/modules/acl"
)

var (
	ENV       string
	AppSecret string
)

// IgniteConfig loads .env and the application config file (json or yaml,
// ENV_FILE) and lets environment variables override it.
func IgniteConfig(d Deps) (Deps, error) {
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warning(err)
	}
	envfile := envOr("ENV_FILE", "./env.json")
	var (
		cfg *config.Config
		err error
	)
	switch filepath.Ext(envfile) {
	case ".yml", ".yaml":
		cfg, err = config.ParseYamlFile(envfile)
	default:
		cfg, err = config.ParseJsonFile(envfile)
	}
	if os.IsNotExist(err) {
		log.Warningf("config %s not found, using environment only", envfile)
		cfg, err = config.ParseJson(`{}`)
	}
	if err != nil {
		return d, err
	}
	cfg = cfg.Env()
	ENV = cfg.UString("environment", "development")
	AppSecret = cfg.UString("application.secret", "")
	d.ConfigProvider = cfg
	return d, nil
}

// IgniteRules loads the moderation rules and keeps watching them.
func IgniteRules(d Deps) (Deps, error) {
	c, err := rules.Bootstrap(d.Config().UString("rules.file", ""))
	if err != nil {
		return d, err
	}
	d.RulesProvider = c
	return d, nil
}

// IgniteACL boots the role graph.
func IgniteACL(d Deps) (Deps, error) {
	module, err := acl.Boot(d.Config().UString("acl.file", ""))
	if err != nil {
		return d, err
	}
	d.ACLProvider = module
	return d, nil
}
