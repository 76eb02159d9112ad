package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/facebookgo/inject"
	"github.com/getsentry/raven-go"
	"github.com/spf13/cobra"
	"github.com/tryanzu/tribunal/board/bans"
	_ "github.com/tryanzu/tribunal/board/events"
	"github.com/tryanzu/tribunal/deps"
	"github.com/tryanzu/tribunal/internal/dal"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/api"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

func main() {
	if err := deps.Bootstrap(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer deps.Container.Close()

	// Graph main object (used to inject dependencies)
	var g inject.Graph

	// Resources for the API
	var (
		api        api.Module
		exceptions exceptions.ExceptionsModule
		log        = deps.Container.Log()
		config     = deps.Container.Config()
	)

	// Services for the DI
	errorService, err := raven.New(config.UString("sentry.dsn", ""))
	if err != nil {
		log.Warningf("sentry disabled: %v", err)
		errorService, _ = raven.New("")
	}

	// Provide graph with service instances
	err = g.Provide(
		&inject.Object{Value: log, Complete: true},
		&inject.Object{Value: config, Complete: true},
		&inject.Object{Value: errorService, Complete: true},
		&inject.Object{Value: deps.Container.ACL(), Complete: true},
		&inject.Object{Value: &exceptions},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cmdAPI = &cobra.Command{
		Use:   "api [port]",
		Short: "Starts API web server",
		Long: `Starts API web server listening
        in the specified env port
        `,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			port := ":3200"
			if len(args) == 1 {
				port = args[0]
			}

			// Populate dependencies using the already instantiated DI
			api.Populate(&g)

			// Run API module
			api.Run(port)
		},
	}

	var cmdLiftBan = &cobra.Command{
		Use:   "lift-ban <community> <ban>",
		Short: "Lifts a community ban",
		Long: `Lifts an active community ban
		as an administrator
        `,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := g.Populate(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer exceptions.Recover()

			admin := deps.Container.ACL().Principal("cli", acl.RoleAdmin, nil)
			ban, err := bans.Lift(deps.Container, admin, args[0], args[1])
			if err != nil {
				log.Error(err)
				os.Exit(1)
			}
			log.Infof("ban %s on %s lifted at %s", ban.ID, ban.BannedMemberID, ban.Lifted.Format(time.RFC3339))
		},
	}

	var cmdRules = &cobra.Command{
		Use:   "rules",
		Short: "Prints the moderation rules",
		Long: `Prints the loaded report categories,
		ban reasons and appeal types as toml
        `,
		Run: func(cmd *cobra.Command, args []string) {
			if err := deps.Container.Rules().WriteTOML(os.Stdout); err != nil {
				log.Error(err)
				os.Exit(1)
			}
		},
	}

	var cmdSeed = &cobra.Command{
		Use:   "seed <author>",
		Short: "Seeds a post and a comment",
		Long: `Inserts a visible post and comment
		owned by author into mongo
        `,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			db := deps.Container.Mgo()
			if db == nil {
				log.Error("seed needs content.driver set to mongo")
				os.Exit(1)
			}
			post, comment, err := dal.Seed(db, args[0])
			if err != nil {
				log.Error(err)
				os.Exit(1)
			}
			fmt.Println(post)
			fmt.Println(comment)
		},
	}

	var (
		role   string
		grants []string
		ttl    time.Duration
	)
	var cmdToken = &cobra.Command{
		Use:   "token <member>",
		Short: "Signs an access token",
		Long: `Signs an access token for local usage,
		grants are given as community=permission
        `,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			scoped := map[string][]string{}
			for _, grant := range grants {
				parts := strings.SplitN(grant, "=", 2)
				if len(parts) != 2 {
					log.Errorf("malformed grant %q", grant)
					os.Exit(1)
				}
				scoped[parts[0]] = append(scoped[parts[0]], parts[1])
			}
			signed, err := acl.Token(deps.AppSecret, args[0], role, scoped, ttl)
			if err != nil {
				log.Error(err)
				os.Exit(1)
			}
			fmt.Println(signed)
		},
	}
	cmdToken.Flags().StringVar(&role, "role", acl.RoleMember, "member, moderator or admin")
	cmdToken.Flags().StringSliceVar(&grants, "grant", nil, "community=permission")
	cmdToken.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	var rootCmd = &cobra.Command{Use: "tribunal"}
	rootCmd.AddCommand(cmdAPI)
	rootCmd.AddCommand(cmdLiftBan)
	rootCmd.AddCommand(cmdRules)
	rootCmd.AddCommand(cmdSeed)
	rootCmd.AddCommand(cmdToken)
	rootCmd.Execute()
}
