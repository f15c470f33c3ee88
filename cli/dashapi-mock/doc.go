// Command dashapi-mock serves an in-memory dashboard API for local dashctl use.
package main
