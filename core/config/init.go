package config

import (
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/hcl"
	"github.com/op/go-logging"
)

var (
	// Current rules config, set by Bootstrap.
	Current *Config
	log     = logging.MustGetLogger("config")
)

// Bootstrap loads the rules file on top of the defaults and starts
// watching it for changes.
func Bootstrap(file string) (*Config, error) {
	Current = New()
	if file == "" {
		return Current, nil
	}
	if err := Current.Merge(file); err != nil {
		return Current, err
	}
	go Current.WatchFile(file)
	return Current, nil
}

type Config struct {
	Reload  chan bool
	mu      sync.RWMutex
	current *Rules
}

// New config holding the default rules.
func New() *Config {
	return &Config{
		Reload:  make(chan bool, 1),
		current: Default(),
	}
}

// Rules currently in effect. Callers must not mutate the result.
func (c *Config) Rules() *Rules {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Merge reads a rules file (.hcl or .toml) over the defaults.
func (c *Config) Merge(file string) error {
	dat, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}
	rules, err := Parse(filepath.Ext(file), dat)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.current = rules
	c.mu.Unlock()

	// Reload signal if anyone is listening...
	select {
	case c.Reload <- true:
	default:
	}
	log.Infof("rules loaded from %s: %d report categories, %d ban reasons, %d appeal types",
		file, len(rules.ReportCategories), len(rules.BanReasons), len(rules.AppealTypes))
	return nil
}

// Parse decodes rules by file extension and merges them over the defaults.
func Parse(ext string, dat []byte) (*Rules, error) {
	var parsed Rules
	switch ext {
	case ".toml":
		if _, err := toml.Decode(string(dat), &parsed); err != nil {
			return nil, err
		}
	default:
		if err := hcl.Decode(&parsed, string(dat)); err != nil {
			return nil, err
		}
	}
	rules := Default()
	rules.merge(&parsed)
	return rules, nil
}

func (c *Config) WatchFile(file string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error(err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(file); err != nil {
		log.Error(err)
		return
	}
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				log.Info("modified file:", event.Name)
				if err := c.Merge(event.Name); err != nil {
					log.Errorf("rules reload failed, keeping previous rules: %v", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error(err)
		}
	}
}
