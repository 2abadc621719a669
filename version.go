package main

// Version is the build version reported by -version and the web UI.
var Version = "0.3.1"
