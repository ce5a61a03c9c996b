package index

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	modularTypeIndex = `typeSearchIndex = [{"p":"java.lang","l":"CharSequence"},{"p":"java.lang","l":"String"},` +
		`{"p":"java.lang","l":"StringBuilder"},{"p":"java.lang.annotation","l":"Retention"},` +
		`{"p":"java.util","l":"Map.Entry"},{"l":"All Classes and Interfaces","u":"allclasses-index.html"}];updateSearchResults();`

	modularPackageIndex = `packageSearchIndex = [{"m":"java.base","l":"java.lang"},{"m":"java.base","l":"java.lang.annotation"},` +
		`{"m":"java.base","l":"java.util"},{"l":"All Packages","u":"allpackages-index.html"}];updateSearchResults();`

	modularMemberIndex = `memberSearchIndex = [` +
		`{"m":"java.base","p":"java.lang","c":"String","l":"join(CharSequence, CharSequence...)","u":"join(java.lang.CharSequence,java.lang.CharSequence...)"},` +
		`{"m":"java.base","p":"java.lang","c":"String","l":"join(CharSequence, Iterable<? extends CharSequence>)","u":"join(java.lang.CharSequence,java.lang.Iterable)"},` +
		`{"m":"java.base","p":"java.lang","c":"String","l":"String(byte[])","u":"%3Cinit%3E(byte%5B%5D)"},` +
		`{"m":"java.base","p":"java.lang","c":"String","l":"CASE_INSENSITIVE_ORDER"}` +
		`];updateSearchResults();`

	// JDK 9 to 11 spell the anchor key "url".
	longURLMemberIndex = `memberSearchIndex = [` +
		`{"p":"java.lang","c":"String","l":"join(CharSequence, CharSequence...)","url":"join(java.lang.CharSequence,java.lang.CharSequence...)"},` +
		`{"p":"java.lang","c":"String","l":"valueOf(int)","url":"valueOf-int-"}` +
		`];updateSearchResults();`

	modularAllClasses = `<!DOCTYPE html><html><body><table>
<tr><td><a href="java.base/java/lang/CharSequence.html" title="interface in java.lang">CharSequence</a></td></tr>
<tr><td><a href="java.base/java/lang/String.html" title="class in java.lang">String</a></td></tr>
<tr><td><a href="java.base/java/lang/StringBuilder.html" title="class in java.lang">StringBuilder</a></td></tr>
<tr><td><a href="java.base/java/lang/annotation/Retention.html" title="annotation interface in java.lang.annotation">Retention</a></td></tr>
<tr><td><a href="java.base/java/util/Map.Entry.html" title="interface in java.util">Map.Entry</a></td></tr>
</table></body></html>`

	legacyAllClasses = `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN"><html><body>
<h1 class="bar">All Classes</h1>
<div class="indexContainer"><ul title="Classes">
<li><a href="java/lang/CharSequence.html" title="interface in java.lang"><span class="interfaceName">CharSequence</span></a></li>
<li><a href="java/lang/annotation/Retention.html" title="annotation in java.lang.annotation">Retention</a></li>
<li><a href="java/lang/String.html" title="class in java.lang">String</a></li>
<li><a href="java/lang/Thread.State.html" title="enum in java.lang">Thread.State</a></li>
</ul></div></body></html>`

	legacyStringPage = `<html><body>
<a name="navbar.top"></a><a name="navbar.top.firstrow"></a><a name="allclasses_navbar_top"></a>
<a name="skip.navbar.top"></a><a name="method.summary"></a>
<a name="CASE_INSENSITIVE_ORDER"></a>
<a name="String--"></a>
<a name="String-byte:A-"></a>
<a name="join-java.lang.CharSequence-java.lang.CharSequence...-"></a>
<a name="join-java.lang.CharSequence-java.lang.Iterable-"></a>
<a name="valueOf-int-"></a>
<a name="methods.inherited.from.class.java.lang.Object"></a>
</body></html>`
)

func zipped(t *testing.T, name, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
