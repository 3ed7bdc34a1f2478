//go:build swagger

package main

import _ "autodevstack/docs"
