/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/hako/durafmt"

	"github.com/mikeb26/uqlt/browser"
	"github.com/mikeb26/uqlt/elo"
	"github.com/mikeb26/uqlt/qlive"
)

var tUnits durafmt.Units

func init() {
	var err error
	tUnits, err = durafmt.DefaultUnitsCoder.Decode("yr:yrs,wk:wks,day:days,hr:hrs,min:mins,sec:secs,ms:ms,μs:μs")
	if err != nil {
		panic(err)
	}
}

func formatDuration(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(2).Format(tUnits)
}

func formatPing(srv *qlive.Server) string {
	if srv.PingErr != nil {
		return "-"
	}
	return fmt.Sprintf("%dms", srv.Ping.Milliseconds())
}

func formatAverage(avg int, n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(avg)
}

func writeServers(w io.Writer, servers []qlive.Server) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PING\tTYPE\tMAP\tPLAYERS\tRED\tBLUE\tAVG\tHOST")
	fmt.Fprintln(tw, "----\t----\t---\t-------\t---\t----\t---\t----")

	for i := range servers {
		srv := &servers[i]
		red, blue := "-", "-"
		if srv.GameType.IsRatedTeamGame() {
			red = formatAverage(srv.TeamAverage(qlive.TeamRed))
			blue = formatAverage(srv.TeamAverage(qlive.TeamBlue))
		}
		fmt.Fprintf(tw, "%v\t%v\t%v\t%d/%d\t%v\t%v\t%v\t%v\n",
			formatPing(srv), srv.GameType, srv.Map, srv.NumPlayers,
			srv.MaxClients, red, blue, formatAverage(srv.Average()),
			srv.HostName)
	}
	tw.Flush()
}

func writeRatings(w io.Writer, cache *elo.Cache, names []string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tDUEL\tTDM\tCA\tFFA\tCTF")
	fmt.Fprintln(tw, "------\t----\t---\t--\t---\t---")

	for _, name := range names {
		r, ok := cache.Get(name)
		if !ok {
			fmt.Fprintf(tw, "%v\t-\t-\t-\t-\t-\n", name)
			continue
		}
		fmt.Fprintf(tw, "%v\t%d\t%d\t%d\t%d\t%d\n", name, r.Duel, r.TDM, r.CA,
			r.FFA, r.CTF)
	}
	tw.Flush()
}

func summary(st browser.State) string {
	ret := fmt.Sprintf("%d servers refreshed in %v", len(st.Servers),
		formatDuration(st.Finished.Sub(st.Started)))
	if st.FailedBatches > 0 || st.FailedPings > 0 {
		ret += fmt.Sprintf(" (%d rating lookups and %d pings failed)",
			st.FailedBatches, st.FailedPings)
	}
	if st.Err != nil {
		ret += fmt.Sprintf(": %v", st.Err)
	}
	return ret
}
