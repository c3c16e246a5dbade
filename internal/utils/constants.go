package utils

const (
	// GitDirectoryName is the name of the directory marking a git checkout.
	GitDirectoryName = ".git"
	// ApplicationName is the binary and configuration namespace.
	ApplicationName = "filetree"
	// ConfigFileName is the configuration file looked up in the working directory.
	ConfigFileName = ApplicationName + ".yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = "." + ApplicationName
)
