package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn        string
	DB         *sql.DB
	SchemaName string
	cfgFile    string
	DriverName string // "mysql", "postgres", "sqlserver" or "oracle"
)

var RootCmd = &cobra.Command{
	Use:   "db-align",
	Short: "SQL dump importer and schema diff tool",
	Long: `db-align parses a SQL dump into classified statements, resolves the
foreign-key dependency order of its tables, imports it into a live
database in that order, and reports column-level differences between
the dump and the database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "inspect" {
			// pure parse path, no database needed
			return nil
		}

		// a "databases" block selects one of several connections; an
		// explicit --dsn flag wins over it
		if dsn == "" && viper.IsSet("databases") {
			config, err := GetActiveDBConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Using database %q (%s)\n", config.Name, config.Driver)
			viper.Set("database.dsn", config.DSN)
			if config.Driver != "" {
				viper.Set("database.driver", config.Driver)
			}
			if config.User != "" {
				viper.Set("database.user", config.User)
			}
			if config.Host != "" {
				viper.Set("database.host", config.Host)
			}
		}

		connStr := viper.GetString("database.dsn")
		if connStr == "" {
			return fmt.Errorf("database.dsn is required (via flag or config)")
		}

		configDriver := viper.GetString("database.driver")
		if configDriver != "" {
			DriverName = configDriver
		} else {
			switch {
			case strings.Contains(connStr, "postgres") || strings.Contains(connStr, "sslmode"):
				DriverName = "postgres"
			case strings.Contains(connStr, "sqlserver"):
				DriverName = "sqlserver"
			case strings.HasPrefix(connStr, "oracle://"):
				DriverName = "oracle"
			default:
				DriverName = "mysql"
			}
		}

		var err error
		DB, err = sql.Open(DriverName, connStr)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		if err := DB.Ping(); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		switch DriverName {
		case "mysql":
			if err := DB.QueryRow("SELECT DATABASE()").Scan(&SchemaName); err != nil {
				return fmt.Errorf("failed to get database name: %w", err)
			}
			if SchemaName == "" {
				return fmt.Errorf("no database selected in DSN")
			}
		case "sqlserver", "mssql":
			SchemaName = "dbo"
		case "oracle":
			SchemaName = strings.ToUpper(connUser())
		default:
			SchemaName = "public"
		}

		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-align.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.SetDefault("database.dsn", "root:root@tcp(127.0.0.1:3306)/test?parseTime=true")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("db-align")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

var dsnUserHostRe = regexp.MustCompile(`^([^:@/]+)(?::[^@]*)?@(?:\w+\()?([^:/?)]+)?`)

// connUser returns the account name of the configured DSN, "root" when
// it cannot be determined.
func connUser() string {
	if u := viper.GetString("database.user"); u != "" {
		return u
	}
	if m := dsnUserHostRe.FindStringSubmatch(viper.GetString("database.dsn")); m != nil {
		return m[1]
	}
	return "root"
}

// connHost returns the server host of the configured DSN, "localhost"
// when it cannot be determined. Together with connUser it feeds the
// DEFINER rewrite so restored routines are owned by the connecting
// account.
func connHost() string {
	if h := viper.GetString("database.host"); h != "" {
		return h
	}
	if m := dsnUserHostRe.FindStringSubmatch(viper.GetString("database.dsn")); m != nil && m[2] != "" {
		return m[2]
	}
	return "localhost"
}
