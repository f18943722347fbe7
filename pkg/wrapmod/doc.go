// SPDX-License-Identifier: MPL-2.0

// Package wrapmod implements the wrapper-module domain: the on-disk module
// layout, template-driven skeleton generation, structural validation, and the
// lifecycle operations (build, check, test, upload, install, uninstall) that
// drive a module from skeleton to published package.
//
// A module is a directory named <package>.wrapmod where <package> is the
// fixed "wrap." prefix plus the wrapped program's name. It contains the
// module metadata (wrapmod.cue, schema-validated CUE), a generated source
// stub under src/, one Dockerfile per image tag under container/, and a smoke
// test script under examples/.
//
// All lifecycle operations are stateless: each re-derives what it needs from
// the filesystem at invocation time. Stage reports the lifecycle stage
// derived from which artifacts exist; it is never persisted.
package wrapmod
