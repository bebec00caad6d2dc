/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package config contains the global configuration of the vertex server.
*/
package config

import (
	"fmt"
	"path"
	"strconv"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
)

// Global variables
// ================

/*
ProductName is the name of this product
*/
const ProductName = "vdevd"

/*
ProductVersion is the current version of vdevd
*/
const ProductVersion = "1.1.0"

/*
DefaultConfigFile is the default config file which will be used to configure vdevd
*/
var DefaultConfigFile = "vdevd.config.json"

/*
Known configuration options for vdevd
*/
const (
	MemoryOnlyStorage     = "MemoryOnlyStorage"
	LocationDevFS         = "LocationDevFS"
	LocationHTTPS         = "LocationHTTPS"
	LocationWebFolder     = "LocationWebFolder"
	LocationUserDirectory = "LocationUserDirectory"
	HTTPSCertificate      = "HTTPSCertificate"
	HTTPSKey              = "HTTPSKey"
	LockFile              = "LockFile"
	HTTPHost              = "HTTPHost"
	HTTPPort              = "HTTPPort"
	DirectoryType         = "DirectoryType"
	EnableHTTPS           = "EnableHTTPS"
	EnableWebFolder       = "EnableWebFolder"
	WatchSchedule         = "WatchSchedule"
	WatchWorkers          = "WatchWorkers"
	LoginRetries          = "LoginRetries"
	LoginDebounceSeconds  = "LoginDebounceSeconds"
	LogLevel              = "LogLevel"
)

/*
Known directory types
*/
const (
	DirectoryTypeFile   = "file"
	DirectoryTypeSQLite = "sqlite"
)

/*
DefaultConfig is the defaut configuration
*/
var DefaultConfig = map[string]interface{}{
	MemoryOnlyStorage:     false,
	EnableHTTPS:           false,
	EnableWebFolder:       false,
	LocationDevFS:         "/mnt/vdev",
	LocationHTTPS:         "ssl",
	LocationWebFolder:     "web",
	LocationUserDirectory: "users.db",
	DirectoryType:         DirectoryTypeFile,
	HTTPHost:              "localhost",
	HTTPPort:              "8091",
	HTTPSCertificate:      "cert.pem",
	HTTPSKey:              "key.pem",
	LockFile:              "vdevd.lck",
	WatchSchedule:         "0 * * * * *",
	WatchWorkers:          4.0,
	LoginRetries:          3.0,
	LoginDebounceSeconds:  20.0,
	LogLevel:              "info",
}

/*
Config is the actual config which is used
*/
var Config map[string]interface{}

/*
LoadConfigFile loads a given config file. If the config file does not exist it is
created with the default options.
*/
func LoadConfigFile(configfile string) error {
	var err error

	Config, err = fileutil.LoadConfig(configfile, DefaultConfig)

	return err
}

/*
LoadDefaultConfig loads the default configuration.
*/
func LoadDefaultConfig() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

// Helper functions
// ================

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int64 {
	ret, err := strconv.ParseInt(fmt.Sprint(Config[key]), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}

/*
WebPath returns a path relative to the web directory.
*/
func WebPath(parts ...string) string {
	return path.Join(Str(LocationWebFolder), path.Join(parts...))
}
