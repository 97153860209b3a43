// Package display renders the control center menu with GTK4 and libadwaita.
package display
