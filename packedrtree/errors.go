// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package packedrtree

import "errors"

const packageName = "packedrtree: "

func textErr(text string) error {
	return errors.New(packageName + text)
}

func textPanic(text string) {
	panic(packageName + text)
}
