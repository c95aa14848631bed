// Package config compiles an eww XML document into an immutable [Config].
//
// A document has three sections below its root element:
//
//	<eww>
//	  <definitions>
//	    <def name="bar"><box>{{ time }}</box></def>
//	  </definitions>
//	  <windows>
//	    <window name="main">
//	      <size x="1920" y="30"/>
//	      <pos x="0" y="0"/>
//	      <widget><bar/></widget>
//	    </window>
//	  </windows>
//	  <variables>
//	    <var name="greeting">hello</var>
//	    <script-var name="time" interval="1s">date +%H:%M</script-var>
//	  </variables>
//	</eww>
//
// <definitions> and <windows> are required, <variables> is optional.
// Parsing fails on the first invalid entry; the returned error carries the
// source position of the offending element and the section being parsed.
//
// [Config.GenerateInitialState] runs each script variable's command once and
// overlays the declared defaults, which always win over command output.
package config
