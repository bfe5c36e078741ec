// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

const helpPlayback = `
p/SPACE  play/pause
P        stop
>        next track
,/.      seek -10/+10 seconds
LEFT/RIGHT seek -10/+10 seconds
-/+/=    volume down/up
`

const helpGeneral = `
1        player page
2        log page
?        this help
ESC      close help
Q        quit (saves the session)
`

const helpPageLog = `
UP/DOWN  scroll the log
newest lines are on top
`
