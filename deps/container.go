package deps

// Contains bootstraped dependencies.
var Container Deps

// An ignitor takes a Container and injects bootstraped dependencies.
type Ignitor func(Deps) (Deps, error)

// Bootstrap runs ignitors to fulfill deps container.
func Bootstrap() error {
	ignitors := []Ignitor{
		IgniteConfig,
		IgniteLogger,
		IgniteRules,
		IgniteACL,
		IgniteBuntDB,
		IgniteLedisDB,
		IgniteMongoDB,
		IgniteContent,
		IgniteCache,
	}

	var err error
	container := Deps{}
	for _, fn := range ignitors {
		container, err = fn(container)
		if err != nil {
			container.Close()
			return err
		}
	}
	Container = container
	return nil
}
