/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package server

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/httputil"
	"devt.de/krotik/vdevd/api/ac"
	"devt.de/krotik/vdevd/config"
)

/*
Flag to enable / disable long running tests.
(Only used for test development - should never be false)
*/
const RunLongRunningTests = true

const testdb = "testdb"

const testPort = "9093"

const invalidFileName = "**" + string(rune(0x0))

var printLog = []string{}
var errorLog = []string{}

var printLogging = false

func TestMain(m *testing.M) {
	flag.Parse()

	basepath = testdb + "/"
	logOutput = io.Discard

	// Log all print and error messages

	print = func(v ...interface{}) {
		if printLogging {
			fmt.Println(v...)
		}
		printLog = append(printLog, fmt.Sprint(v...))
	}
	fatal = func(v ...interface{}) {
		if printLogging {
			fmt.Println(v...)
		}
		errorLog = append(errorLog, fmt.Sprint(v...))
	}

	defer func() {
		fatal = log.Fatal
		basepath = ""
	}()

	if res, _ := fileutil.PathExists(testdb); res {
		if err := os.RemoveAll(testdb); err != nil {
			fmt.Print("Could not remove test directory:", err.Error())
		}
	}

	ensurePath(testdb)

	// Run the tests

	res := m.Run()

	if res, _ := fileutil.PathExists(testdb); res {
		if err := os.RemoveAll(testdb); err != nil {
			fmt.Print("Could not remove test directory:", err.Error())
		}
	}

	os.Exit(res)
}

func TestMainNormalCase(t *testing.T) {

	if !RunLongRunningTests {
		return
	}

	// Make sure to reset the DefaultServeMux

	defer func() { http.DefaultServeMux = http.NewServeMux() }()

	// Make sure to remove any files

	defer func() {
		if err := os.RemoveAll(testdb); err != nil {
			fmt.Print("Could not remove test directory:", err.Error())
		}
		time.Sleep(time.Duration(100) * time.Millisecond)
		ensurePath(testdb)
	}()

	// Reset logs

	printLog = []string{}
	errorLog = []string{}

	errorChan := make(chan error)

	// Load default configuration

	config.LoadDefaultConfig()

	config.Config[config.MemoryOnlyStorage] = true
	config.Config[config.EnableWebFolder] = true
	config.Config[config.HTTPPort] = testPort

	// Add a user to the directory

	dir, err := OpenDirectory()
	if err != nil {
		t.Error(err)
		return
	}

	u, _ := ac.NewUser("alice", "secret", "0123456789abcdef0123456789abcdef")
	dir.AddUser(u)
	dir.Close()

	// Kick off main function

	go func() {
		_, err := runServer()
		errorChan <- err
	}()

	// Connect a client while the server is running

	var c *websocket.Conn

	for i := 0; i < 50; i++ {
		if c, _, err = websocket.DefaultDialer.Dial("ws://localhost:"+testPort+"/vdev/v1/vertex/", nil); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	if err != nil {
		t.Error("Could not open websocket:", err)
	} else {

		c.WriteMessage(websocket.TextMessage, []byte(`{"id":1,"action":"auth","data":{"user":"alice","password":"secret"}}`))
		c.WriteMessage(websocket.TextMessage, []byte(`{"id":2,"action":"list"}`))

		c.SetReadDeadline(time.Now().Add(5 * time.Second))

		if _, msg, err := c.ReadMessage(); err != nil || string(msg) != `{"id":1,"err":false}` {
			t.Error("Unexpected response:", string(msg), err)
		}

		// The memory store has no vertices for the user

		if _, msg, err := c.ReadMessage(); err != nil || string(msg) != `{"id":2,"err":true}` {
			t.Error("Unexpected response:", string(msg), err)
		}

		c.Close()
	}

	if res, _ := fileutil.PathExists(testdb + "/web/index.html"); !res {
		t.Error("Browser client was not written")
	}

	// To exit the main function the lock watcher thread
	// has to recognise that the lockfile was modified

	shutdown := false

	go func() {
		filename := basepath + config.Str(config.LockFile)

		for !shutdown {

			// Do a normal shutdown with a log file - don't check for errors

			shutdownWithLogFile(filename)

			time.Sleep(time.Duration(200) * time.Millisecond)
		}
	}()

	// Wait for the main function to end

	if err := <-errorChan; err != nil || len(errorLog) != 0 {
		t.Error("Unexpected ending of main thread:", err, errorLog)
		return
	}

	shutdown = true

	// Check the print log

	logString := strings.Join(printLog, "\n")

	if runtime.GOOS == "windows" {

		// Very primitive but good enough

		logString = strings.Replace(logString, "\\", "/", -1)
	}

	if logString != `
vdevd `[1:]+config.ProductVersion+`
Starting memory only record store
Opening user directory (file) in testdb/users.db
Starting watch engine (workers: 4, schedule: 0 * * * * *)
Ensuring web folder: testdb/web
Ensuring browser client: testdb/web/index.html
Starting HTTP server on: localhost:9093
Waiting for shutdown
Lockfile was modified
Shutting down
Closing record store and user directory` {
		t.Error("Unexpected log:", logString)
		return
	}

	config.Config = nil
}

func TestMainErrorCases(t *testing.T) {

	if !RunLongRunningTests {
		return
	}

	// Make sure to reset the DefaultServeMux

	defer func() { http.DefaultServeMux = http.NewServeMux() }()

	// Make sure to remove any files

	defer func() {
		if err := os.RemoveAll(testdb); err != nil {
			fmt.Print("Could not remove test directory:", err.Error())
		}
		time.Sleep(time.Duration(100) * time.Millisecond)
		ensurePath(testdb)
	}()

	// Setup config and logs

	config.LoadDefaultConfig()

	printLog = []string{}
	errorLog = []string{}

	// Test unknown log level

	config.Config[config.LogLevel] = "foo"

	runServer()

	if len(errorLog) != 1 || !strings.Contains(errorLog[0], "Unknown log level") {
		t.Error("Unexpected error:", errorLog)
		return
	}

	config.Config[config.LogLevel] = "debug"

	// Test record store access error

	printLog = []string{}
	errorLog = []string{}

	config.Config[config.LocationDevFS] = "nonexisting"

	runServer()

	if len(errorLog) != 1 || !strings.Contains(errorLog[0], "Failed to open record store") {
		t.Error("Unexpected error:", errorLog)
		return
	}

	// Test unknown directory type

	printLog = []string{}
	errorLog = []string{}

	config.Config[config.MemoryOnlyStorage] = true
	config.Config[config.DirectoryType] = "foo"

	runServer()

	if len(errorLog) != 1 || !strings.Contains(errorLog[0], "Failed to open user directory") {
		t.Error("Unexpected error:", errorLog)
		return
	}

	config.Config[config.DirectoryType] = config.DirectoryTypeSQLite

	// Test invalid watch schedule

	printLog = []string{}
	errorLog = []string{}

	config.Config[config.WatchSchedule] = "foo"

	runServer()

	if len(errorLog) != 1 || !strings.Contains(errorLog[0], "Invalid watch schedule") {
		t.Error("Unexpected error:", errorLog)
		return
	}

	config.Config[config.WatchSchedule] = config.DefaultConfig[config.WatchSchedule]

	// Test failed ssl key generation

	printLog = []string{}
	errorLog = []string{}

	config.Config[config.EnableHTTPS] = true
	config.Config[config.HTTPSKey] = invalidFileName

	runServer()

	if len(errorLog) != 1 ||
		!strings.Contains(errorLog[0], "Failed to generate ssl key and certificate") {
		t.Error("Unexpected error:", errorLog)
		return
	}

	config.Config[config.EnableHTTPS] = false
	config.Config[config.HTTPSKey] = config.DefaultConfig[config.HTTPSKey]

	http.DefaultServeMux = http.NewServeMux()

	// Test port already in use

	printLog = []string{}
	errorLog = []string{}

	config.Config[config.HTTPPort] = testPort

	ths := httputil.HTTPServer{}
	go ths.RunHTTPServer(":"+testPort, nil)

	time.Sleep(time.Duration(1) * time.Second)

	runServer()

	ths.Shutdown()

	time.Sleep(time.Duration(1) * time.Second)

	if ths.Running {
		t.Error("Server should not be running")
		return
	}

	if len(errorLog) != 1 || !strings.Contains(errorLog[0], "listen tcp :"+testPort) {
		t.Error("Unexpected error:", errorLog)
		return
	}

	config.Config = nil
}

func shutdownWithLogFile(filename string) error {

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0660)
	defer file.Close()
	if err != nil {
		fmt.Println(errorLog)
		return err
	}

	_, err = file.Write([]byte("a"))
	if err != nil {
		return err
	}

	return nil
}

/*
Run the server and capture the output.
*/
func runServer() (string, error) {

	defer func() {
		if r := recover(); r != nil {
			fmt.Println("Server execution caused a panic.")
			out, err := os.ReadFile("out.txt")
			if err != nil {
				fmt.Println(err)
			}
			fmt.Println(out)
		}
	}()

	// Exchange stderr to a file

	origStdErr := os.Stderr

	outFile, err := os.Create("out.txt")
	if err != nil {
		return "", err
	}
	defer func() {
		outFile.Close()
		os.RemoveAll("out.txt")

		// Put Stderr back

		os.Stderr = origStdErr
		log.SetOutput(os.Stderr)
	}()

	os.Stderr = outFile
	log.SetOutput(outFile)

	StartServer()

	// Reset flags

	outFile.Sync()

	out, err := os.ReadFile("out.txt")
	if err != nil {
		return "", err
	}

	return string(out), nil
}
