// Package cinder contains the core components of Cinder, a single-machine
// engine for lazy, partitioned data processing. This root package defines the
// types which are employed during regular use of the engine, as well as in
// its extension, and is a good overview of Cinder's key concepts: Datasets
// describe chains of deferred transformations over partitioned collections,
// and an Engine executes those chains when an action demands a result.
package cinder
