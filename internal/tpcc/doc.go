// Package tpcc generates a synthetic session trace shaped like the
// TPC-C NewOrder/Payment/OrderStatus transaction profile against a
// Warehouse/District/Customer/Order/OrderLine/Stock schema. It exists
// only to give the cost-model and search-engine test suites a
// realistic, parametrizable workload without a live MongoDB deployment
// and is never imported by non-test code.
package tpcc
