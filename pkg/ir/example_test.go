package ir_test

import (
	"fmt"

	"github.com/matzehuels/gslbridge/pkg/ir"
)

func ExampleNodeID() {
	fmt.Println(ir.NodeID("Image Texture.001", 3))
	fmt.Println(ir.ClassName("ShaderNodeTexImage"))
	// Output:
	// Image_Texture_001_003
	// TexImageModule
}

func ExampleMarshal() {
	res := &ir.Result{
		Material: "Holz",
		Nodes: []ir.Node{
			{ID: "Math_000", Name: "Math", Class: "MathModule", Inputs: []string{"A", "B"}, Outputs: []string{"Value"}},
		},
		Links: []ir.Link{{From: "Math_000", OutIndex: 0, To: "Out_001", InIndex: 2}},
	}
	data, _ := ir.Marshal(ir.Payload{Result: res})
	fmt.Println(string(data))

	data, _ = ir.Marshal(ir.ErrorPayload("no active object"))
	fmt.Println(string(data))
	// Output:
	// {"material":"Holz","nodes":[{"id":"Math_000","name":"Math","class":"MathModule","inputs":["A","B"],"outputs":["Value"]}],"links":["Math_000,0,Out_001,2"]}
	// {"error":"no active object"}
}
