// Package prefs holds user preferences that outlive a console session.
//
// A Store is opened once, passed by reference to whatever needs it, and
// closed when the process is done with it. There is no package-level state;
// two stores on different files never observe each other.
package prefs
