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
Package server contains the code for the vdevd server.
*/
package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/httputil"
	"devt.de/krotik/common/lockutil"
	"devt.de/krotik/common/logutil"
	"devt.de/krotik/common/timeutil"
	"devt.de/krotik/vdevd/api"
	"devt.de/krotik/vdevd/api/ac"
	v1 "devt.de/krotik/vdevd/api/v1"
	"devt.de/krotik/vdevd/config"
	"devt.de/krotik/vdevd/graph"
	"devt.de/krotik/vdevd/graph/graphstorage"
	"devt.de/krotik/vdevd/watch"
)

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests. Overwrite
these if the server should not call os.Exit on a fatal error.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)
var print = consolelogger(log.Print)

/*
Base path for all file (used by unit tests)
*/
var basepath = ""

/*
Output of the server log (used by unit tests)
*/
var logOutput io.Writer = os.Stdout

/*
OpenDirectory opens the user directory which is configured in config.Config.
*/
func OpenDirectory() (ac.Directory, error) {

	if config.Config == nil {
		config.LoadDefaultConfig()
	}

	return ac.NewDirectory(config.Str(config.DirectoryType),
		filepath.Join(basepath, config.Str(config.LocationUserDirectory)))
}

/*
StartServer runs the vdevd server. The server uses config.Config for all its
configuration parameters.
*/
func StartServer() {
	var err error
	var gs graphstorage.Storage

	print(fmt.Sprintf("%v %v", config.ProductName, config.ProductVersion))

	// Ensure we have a configuration - use the default configuration if nothing was set

	if config.Config == nil {
		config.LoadDefaultConfig()
	}

	// Setup the log sink for all vdevd log scopes

	level := logutil.StringToLoglevel(config.Str(config.LogLevel))
	if level == "" {
		fatal("Unknown log level: ", config.Str(config.LogLevel))
		return
	}

	logutil.ClearLogSinks()
	logutil.GetLogger(config.ProductName).AddLogSink(level, logutil.SimpleFormatter(), logOutput)

	// Create record store

	if config.Bool(config.MemoryOnlyStorage) {

		print("Starting memory only record store")

		gs = graphstorage.NewMemoryGraphStorage(config.MemoryOnlyStorage)

	} else {

		loc := filepath.Join(basepath, config.Str(config.LocationDevFS))

		print("Opening record store in ", loc)

		gs, err = graphstorage.NewDiskGraphStorage(loc)
		if err != nil {
			fatal("Failed to open record store:", err)
			return
		}
	}

	// Open user directory

	print("Opening user directory (", config.Str(config.DirectoryType), ") in ",
		filepath.Join(basepath, config.Str(config.LocationUserDirectory)))

	dir, err := OpenDirectory()
	if err != nil {
		gs.Close()
		fatal("Failed to open user directory:", err)
		return
	}

	defer func() {

		print("Closing record store and user directory")

		ce := errorutil.NewCompositeError()

		if err := dir.Close(); err != nil {
			ce.Add(err)
		}

		if err := gs.Close(); err != nil {
			ce.Add(err)
		}

		if ce.HasErrors() {
			fatal(ce)
		}

		os.RemoveAll(filepath.Join(basepath, config.Str(config.LockFile)))
	}()

	// Create GraphManager, authenticator and watch engine

	api.GM = graph.NewGraphManager(gs)

	api.Auth = ac.NewAuthenticator(dir, int(config.Int(config.LoginRetries)),
		config.Int(config.LoginDebounceSeconds))

	workers := int(config.Int(config.WatchWorkers))
	schedule := config.Str(config.WatchSchedule)

	print(fmt.Sprintf("Starting watch engine (workers: %v, schedule: %v)", workers, schedule))

	api.WE = watch.NewEngine(api.GM, workers)

	cron := timeutil.NewCron()

	if err := cron.Register(schedule, api.WE.Poll); err != nil {
		fatal("Invalid watch schedule:", err)
		return
	}

	api.WE.Start()
	defer api.WE.Stop()

	cron.Start()
	defer cron.Stop()

	// Register REST endpoints

	api.APIHost = config.Str(config.HTTPHost) + ":" + config.Str(config.HTTPPort)

	api.RegisterRestEndpoints(api.GeneralEndpointMap)
	api.RegisterRestEndpoints(v1.V1EndpointMap)

	// Register normal web server

	if config.Bool(config.EnableWebFolder) {
		webFolder := filepath.Join(basepath, config.Str(config.LocationWebFolder))

		print("Ensuring web folder: ", webFolder)

		ensurePath(webFolder)

		fs := http.FileServer(http.Dir(webFolder))

		api.HandleFunc("/", fs.ServeHTTP)

		// Write browser client

		indexFile := filepath.Join(webFolder, "index.html")

		print("Ensuring browser client: ", indexFile)

		if res, _ := fileutil.PathExists(indexFile); !res {
			errorutil.AssertOk(os.WriteFile(indexFile, []byte(IndexSRC[1:]), 0644))
		}
	}

	// Start HTTP(S) server

	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	port := config.Str(config.HTTPPort)

	if config.Bool(config.EnableHTTPS) {
		sslPath := filepath.Join(basepath, config.Str(config.LocationHTTPS))

		// Check if HTTPS key and certificate are in place

		keyExists, _ := fileutil.PathExists(filepath.Join(sslPath, config.Str(config.HTTPSKey)))
		certExists, _ := fileutil.PathExists(filepath.Join(sslPath, config.Str(config.HTTPSCertificate)))

		if !keyExists || !certExists {

			// Ensure path for ssl files exists

			ensurePath(sslPath)

			print("Creating key (", config.Str(config.HTTPSKey), ") and certificate (",
				config.Str(config.HTTPSCertificate), ") in: ", sslPath)

			// Generate a certificate and private key

			err = cryptutil.GenCert(sslPath, config.Str(config.HTTPSCertificate),
				config.Str(config.HTTPSKey), config.Str(config.HTTPHost), "",
				365*24*time.Hour, false, 2048, "")

			if err != nil {
				fatal("Failed to generate ssl key and certificate:", err)
				return
			}
		}

		print("Starting HTTPS server on: ", api.APIHost)

		go hs.RunHTTPSServer(sslPath, config.Str(config.HTTPSCertificate),
			config.Str(config.HTTPSKey), ":"+port, &wg)

	} else {

		print("Starting HTTP server on: ", api.APIHost)

		go hs.RunHTTPServer(":"+port, &wg)
	}

	// Wait until the server has started

	wg.Wait()

	// Server has started

	if hs.LastError != nil {
		fatal(hs.LastError)
		return
	}

	// Create a lockfile so the server can be shut down

	lf := lockutil.NewLockFile(filepath.Join(basepath, config.Str(config.LockFile)),
		time.Duration(2)*time.Second)

	lf.Start()

	go func() {

		// Check if the lockfile watcher is running and
		// call shutdown once it has finished

		for lf.WatcherRunning() {
			time.Sleep(time.Duration(1) * time.Second)
		}

		print("Lockfile was modified")

		hs.Shutdown()
	}()

	// Add to the wait group so we can wait for the shutdown

	wg.Add(1)

	print("Waiting for shutdown")
	wg.Wait()

	print("Shutting down")
}

/*
ensurePath ensures that a given relative path exists.
*/
func ensurePath(path string) {
	if res, _ := fileutil.PathExists(path); !res {
		if err := os.MkdirAll(path, 0770); err != nil {
			fatal("Could not create directory:", err.Error())
			return
		}
	}
}
