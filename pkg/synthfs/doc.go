// Package synthfs groups related file writes into one batch. On the real
// filesystem a batch runs as a go-synthfs pipeline with rollback enabled;
// on other backends the steps are applied in order through types.FS.
package synthfs
