// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ModelCPS is a trimmed COPASI 4.14 model with one scheduled optimization
// task targeting a flux control coefficient.
const ModelCPS = `<?xml version="1.0" encoding="UTF-8"?>
<!-- generated with COPASI 4.14 (Build 89) (http://www.copasi.org) at 2014-10-01 10:00:00 UTC -->
<?oxygen RNGSchema="http://www.copasi.org/static/schema/CopasiML.rng" type="xml"?>
<COPASI xmlns="http://www.copasi.org/static/schema" versionMajor="4" versionMinor="14" versionDevel="89" copasiSourcesModified="0">
  <Model key="Model_1" name="Toy pathway" simulationType="time" timeUnit="s" volumeUnit="ml" quantityUnit="mmol" type="deterministic">
    <ListOfCompartments>
      <Compartment key="Compartment_0" name="cell" simulationType="fixed" dimensionality="3">
      </Compartment>
    </ListOfCompartments>
    <ListOfMetabolites>
      <Metabolite key="Metabolite_0" name="A" simulationType="fixed" compartment="Compartment_0">
      </Metabolite>
      <Metabolite key="Metabolite_1" name="B" simulationType="reactions" compartment="Compartment_0">
      </Metabolite>
      <Metabolite key="Metabolite_2" name="C" simulationType="reactions" compartment="Compartment_0">
      </Metabolite>
    </ListOfMetabolites>
    <ListOfReactions>
      <Reaction key="Reaction_0" name="R1" reversible="false" fast="false">
      </Reaction>
      <Reaction key="Reaction_1" name="R2" reversible="false" fast="false">
      </Reaction>
      <Reaction key="Reaction_2" name="R3" reversible="false" fast="false">
      </Reaction>
    </ListOfReactions>
    <StateTemplate>
      <StateTemplateVariable objectReference="Model_1"/>
      <StateTemplateVariable objectReference="Metabolite_2"/>
      <StateTemplateVariable objectReference="Metabolite_1"/>
      <StateTemplateVariable objectReference="Metabolite_0"/>
      <StateTemplateVariable objectReference="Compartment_0"/>
    </StateTemplate>
  </Model>
  <ListOfTasks>
    <Task key="Task_12" name="Steady-State" type="steadyState" scheduled="false" updateModel="false">
      <Report reference="Report_8" target="" append="1" confirmOverwrite="1"/>
      <Problem>
        <Parameter name="JacobianRequested" type="bool" value="1"/>
      </Problem>
    </Task>
    <Task key="Task_17" name="Optimization" type="optimization" scheduled="true" updateModel="false">
      <Report reference="Report_13" target="result.txt" append="0" confirmOverwrite="0"/>
      <Problem>
        <Parameter name="Subtask" type="cn" value="CN=Root,Vector=TaskList[Steady-State]"/>
        <ParameterText name="ObjectiveExpression" type="expression">
          &lt;CN=Root,Vector=TaskList[Metabolic Control Analysis],Method=MCA Method (Reder),Array=Scaled flux control coefficients[0][1]&gt;
        </ParameterText>
        <Parameter name="Maximize" type="bool" value="0"/>
        <Parameter name="Randomize Start Values" type="bool" value="0"/>
        <ParameterGroup name="OptimizationItemList">
        </ParameterGroup>
      </Problem>
      <Method name="Particle Swarm" type="ParticleSwarm">
        <Parameter name="Iteration Limit" type="unsignedInteger" value="2000"/>
        <Parameter name="Swarm Size" type="unsignedInteger" value="50"/>
      </Method>
    </Task>
    <Task key="Task_18" name="Metabolic Control Analysis" type="metabolicControlAnalysis" scheduled="false" updateModel="false">
      <Report reference="Report_9" target="" append="1" confirmOverwrite="1"/>
    </Task>
  </ListOfTasks>
</COPASI>
`

// ObjectiveCPS is the objective expression of ModelCPS, unescaped.
const ObjectiveCPS = "<CN=Root,Vector=TaskList[Metabolic Control Analysis],Method=MCA Method (Reder),Array=Scaled flux control coefficients[0][1]>"

// TwoOptimizationsCPS has two optimization tasks, so the target is ambiguous
// unless a task name is given.
const TwoOptimizationsCPS = `<?xml version="1.0" encoding="UTF-8"?>
<!-- generated with COPASI 4.15 (Build 95) (http://www.copasi.org) at 2015-03-01 10:00:00 UTC -->
<COPASI xmlns="http://www.copasi.org/static/schema" versionMajor="4" versionMinor="15" versionDevel="95">
  <ListOfTasks>
    <Task key="Task_1" name="Optimization" type="optimization" scheduled="true" updateModel="false">
      <Report reference="Report_1" target="first.txt" append="0" confirmOverwrite="0"/>
      <Problem>
        <ParameterText name="ObjectiveExpression" type="expression">
          &lt;CN=Root,Model=Toy,Vector=Values[J],Reference=Value&gt;
        </ParameterText>
        <Parameter name="Maximize" type="bool" value="1"/>
      </Problem>
    </Task>
    <Task key="Task_2" name="Optimization fine" type="optimization" scheduled="false" updateModel="false">
      <Report reference="Report_2" target="second.txt" append="0" confirmOverwrite="0"/>
      <Problem>
        <ParameterText name="ObjectiveExpression" type="expression">
          &lt;CN=Root,Model=Toy,Vector=Values[K],Reference=Value&gt;
        </ParameterText>
        <Parameter name="Maximize" type="bool" value="1"/>
      </Problem>
    </Task>
  </ListOfTasks>
</COPASI>
`

// ItemsCPS has fitted items and a parameter set, for the item, method and
// kinetic parameter editors. R1's k1 is stored in two parameter sets.
const ItemsCPS = `<?xml version="1.0" encoding="UTF-8"?>
<!-- generated with COPASI 4.16 (Build 104) (http://www.copasi.org) at 2016-05-01 10:00:00 UTC -->
<COPASI xmlns="http://www.copasi.org/static/schema" versionMajor="4" versionMinor="16" versionDevel="104">
  <Model key="Model_1" name="Toy" simulationType="time" timeUnit="s" volumeUnit="ml" quantityUnit="mmol" type="deterministic">
    <ListOfModelParameterSets activeSet="ModelParameterSet_1">
      <ModelParameterSet key="ModelParameterSet_1" name="Initial State">
        <ModelParameterGroup cn="String=Kinetic Parameters" type="Group">
          <ModelParameter cn="CN=Root,Model=Toy,Vector=Reactions[R1],ParameterGroup=Parameters,Parameter=k1" value="0.1" type="ReactionParameter" simulationType="fixed"/>
          <ModelParameter cn="CN=Root,Model=Toy,Vector=Reactions[R1],ParameterGroup=Parameters,Parameter=k2" value="0.3" type="ReactionParameter" simulationType="fixed"/>
          <ModelParameter cn="CN=Root,Model=Toy,Vector=Reactions[R2],ParameterGroup=Parameters,Parameter=k1" value="0.2" type="ReactionParameter" simulationType="fixed"/>
        </ModelParameterGroup>
      </ModelParameterSet>
      <ModelParameterSet key="ModelParameterSet_2" name="Fitted">
        <ModelParameterGroup cn="String=Kinetic Parameters" type="Group">
          <ModelParameter cn="CN=Root,Model=Toy,Vector=Reactions[R1],ParameterGroup=Parameters,Parameter=k1" value="0.15" type="ReactionParameter" simulationType="fixed"/>
        </ModelParameterGroup>
      </ModelParameterSet>
    </ListOfModelParameterSets>
  </Model>
  <ListOfTasks>
    <Task key="Task_17" name="Optimization" type="optimization" scheduled="true" updateModel="false">
      <Report reference="Report_13" target="result.txt" append="0" confirmOverwrite="0"/>
      <Problem>
        <ParameterText name="ObjectiveExpression" type="expression">
          &lt;CN=Root,Model=Toy,Vector=Values[J],Reference=Value&gt;
        </ParameterText>
        <Parameter name="Maximize" type="bool" value="0"/>
        <ParameterGroup name="OptimizationItemList">
          <ParameterGroup name="OptimizationItem">
            <Parameter name="LowerBound" type="cn" value="1e-06"/>
            <Parameter name="ObjectCN" type="cn" value="CN=Root,Model=Toy,Vector=Reactions[R1],ParameterGroup=Parameters,Parameter=k1,Reference=Value"/>
            <Parameter name="StartValue" type="float" value="0.1"/>
            <Parameter name="UpperBound" type="cn" value="1e+06"/>
          </ParameterGroup>
          <ParameterGroup name="OptimizationItem">
            <Parameter name="LowerBound" type="cn" value="1e-06"/>
            <Parameter name="ObjectCN" type="cn" value="CN=Root,Model=Toy,Vector=Reactions[R2],ParameterGroup=Parameters,Parameter=k1,Reference=Value"/>
            <Parameter name="StartValue" type="float" value="0.2"/>
            <Parameter name="UpperBound" type="cn" value="1e+06"/>
          </ParameterGroup>
          <ParameterGroup name="OptimizationItem">
            <Parameter name="LowerBound" type="cn" value="0"/>
            <Parameter name="ObjectCN" type="cn" value="CN=Root,Model=Toy,Vector=Values[Vmax],Reference=InitialValue"/>
            <Parameter name="StartValue" type="float" value="5"/>
            <Parameter name="UpperBound" type="cn" value="100"/>
          </ParameterGroup>
        </ParameterGroup>
      </Problem>
      <Method name="Particle Swarm" type="ParticleSwarm">
        <Parameter name="Iteration Limit" type="unsignedInteger" value="2000"/>
        <Parameter name="Swarm Size" type="unsignedInteger" value="50"/>
      </Method>
    </Task>
  </ListOfTasks>
</COPASI>
`

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// ReadFile returns the file content as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}
