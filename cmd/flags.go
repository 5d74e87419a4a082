package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addComponentFlags registers the component-layout flags shared by the
// build, serve, and list commands.
func addComponentFlags(flags *pflag.FlagSet) {
	flags.StringP("components", "c", "components", "Component directory")
	flags.String("ext", ".html", "Component file extension")
	flags.String("entry", "index.html", "Entry HTML file")
}

// bindComponentFlags binds the invoked command's component flags to their
// config keys. Binding happens at run time because several commands define
// the same flags and viper keeps only one binding per key.
func bindComponentFlags(cmd *cobra.Command) {
	viper.BindPFlag("components.dir", cmd.Flags().Lookup("components"))
	viper.BindPFlag("components.ext", cmd.Flags().Lookup("ext"))
	viper.BindPFlag("components.entry", cmd.Flags().Lookup("entry"))
}
