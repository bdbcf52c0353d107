// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/gardener/instance-pricing/tools/cmd/ec2pricing/cmd"
)

func main() {
	cmd.Execute()
}
